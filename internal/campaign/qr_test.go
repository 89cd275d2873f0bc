package campaign

import (
	"bytes"
	"testing"
)

func TestShareURL(t *testing.T) {
	if got := ShareURL("https://kinddraw.example/", "abc 123"); got != "https://kinddraw.example/c/abc%20123" {
		t.Fatalf("unexpected share url: %s", got)
	}
}

func TestGenerateQRImagePNG(t *testing.T) {
	img, err := GenerateQRImagePNG(ShareURL("https://kinddraw.example", "abc123"), 0)
	if err != nil {
		t.Fatalf("generate qr: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("expected png header")
	}
}
