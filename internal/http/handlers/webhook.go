package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"
)

// maxWebhookBody bounds a single event delivery. Larger bodies get 413 rather
// than a truncated payload that would fail signature checks.
const maxWebhookBody = 512 * 1024

// StripeWebhook verifies and applies one Stripe event. Anything past
// signature verification is acknowledged with 200 so Stripe does not retry;
// failures are logged and counted by the payment service.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		logger.Warn("action", "action", "stripe_webhook", "status", "body_too_large", "limit", tooLarge.Limit)
		writeText(w, http.StatusRequestEntityTooLarge, "Webhook Error: payload too large")
		return
	}
	if err != nil {
		logger.Warn("action", "action", "stripe_webhook", "status", "read_failed", "error", err)
		writeText(w, http.StatusBadRequest, "Webhook Error: unreadable body")
		return
	}

	event, err := h.payments.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	switch {
	case errors.Is(err, payments.ErrConfiguration):
		logger.Error("action", "action", "stripe_webhook", "status", "not_configured")
		writeText(w, http.StatusInternalServerError, "Missing Stripe env")
		return
	case err != nil:
		logger.Warn("action", "action", "stripe_webhook", "status", "bad_signature", "error", err)
		writeText(w, http.StatusBadRequest, "Webhook Error: "+err.Error())
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	res := h.payments.HandleEvent(ctx, event)
	logger.Debug("action", "action", "stripe_webhook", "status", string(res.Outcome), "event_id", res.EventID)

	writeText(w, http.StatusOK, "ok")
}

func (h *Handler) StripeWebhookPing(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "ok")
}
