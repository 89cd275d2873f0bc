package handlers

import (
	"crypto/tls"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	should "github.com/stretchr/testify/assert"
)

func TestRequestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/x", nil)
	req.Host = "localhost:3000"
	should.Equal(t, "http://localhost:3000", requestOrigin(req))

	req.TLS = &tls.ConnectionState{}
	should.Equal(t, "https://localhost:3000", requestOrigin(req))

	req.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	req.Header.Set("X-Forwarded-Host", "kinddraw.example, proxy.internal")
	should.Equal(t, "https://kinddraw.example", requestOrigin(req))
}

func TestNumberValue(t *testing.T) {
	should.Equal(t, 12.5, numberValue("12.5"))
	should.True(t, math.IsNaN(numberValue("")))
	should.True(t, math.IsNaN(numberValue("1e")))
}
