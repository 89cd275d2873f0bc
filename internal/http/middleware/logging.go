package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one line per request. Route parameters are logged
// under the name of what they identify: {id} under /api/campaigns is a
// campaign, under /api/admin/sessions a Checkout session.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", ClientIP(r),
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				attrs = append(attrs, "request_id", reqID)
			}
			attrs = append(attrs, routeAttrs(r)...)
			if r.Header.Get("Stripe-Signature") != "" {
				attrs = append(attrs, "stripe_signed", true)
			}
			if status == http.StatusTooManyRequests {
				attrs = append(attrs, "retry_after", ww.Header().Get("Retry-After"))
			}

			switch {
			case status >= 500:
				logger.Error("http_request", attrs...)
			case status >= 400:
				logger.Warn("http_request", attrs...)
			default:
				logger.Info("http_request", attrs...)
			}
		})
	}
}

func routeAttrs(r *http.Request) []any {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	pattern := rctx.RoutePattern()
	if pattern == "" {
		return nil
	}
	attrs := []any{"route", pattern}
	id := rctx.URLParam("id")
	switch {
	case id == "":
	case strings.HasPrefix(pattern, "/api/campaigns/"):
		attrs = append(attrs, "campaign_id", id)
	case strings.HasPrefix(pattern, "/api/admin/sessions/"):
		attrs = append(attrs, "session_id", id)
	}
	return attrs
}
