package campaign

import (
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ShareURL is the public page for a campaign under origin.
func ShareURL(origin, campaignID string) string {
	return strings.TrimRight(origin, "/") + "/c/" + url.PathEscape(campaignID)
}

func GenerateQRImagePNG(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	if size > 1024 {
		size = 1024
	}
	return qrcode.Encode(payload, qrcode.Medium, size)
}
