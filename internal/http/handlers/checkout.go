package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strings"

	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"
)

// checkoutRequest accepts numbers or numeric strings for the pack fields, as
// the campaign page posts whatever its data attributes hold.
type checkoutRequest struct {
	CampaignID  string      `json:"campaignId"`
	PackPrice   json.Number `json:"packPrice"`
	PackEntries json.Number `json:"packEntries"`
	Promo       string      `json:"promo"`
}

func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "create_checkout", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	sess, err := h.payments.CreateCheckout(ctx, requestOrigin(r), payments.CheckoutRequest{
		CampaignID:  req.CampaignID,
		PackPrice:   numberValue(req.PackPrice),
		PackEntries: numberValue(req.PackEntries),
		Promo:       req.Promo,
	})
	switch {
	case errors.Is(err, payments.ErrInvalidInput):
		logger.Warn("action", "action", "create_checkout", "status", "invalid_input", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	case errors.Is(err, payments.ErrConfiguration):
		logger.Error("action", "action", "create_checkout", "status", "not_configured")
		writeError(w, http.StatusInternalServerError, "Missing STRIPE_SECRET_KEY")
		return
	case err != nil:
		logger.Error("action", "action", "create_checkout", "status", "stripe_error", "error", err)
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": sess.URL})
}

// numberValue returns NaN for a missing or unparsable number so validation
// rejects it.
func numberValue(n json.Number) float64 {
	if strings.TrimSpace(n.String()) == "" {
		return math.NaN()
	}
	f, err := n.Float64()
	if err != nil {
		return math.NaN()
	}
	return f
}
