package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shaneclick1-cyber/Kinddraw/internal/models"
	"github.com/shaneclick1-cyber/Kinddraw/internal/payments"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type manualOrderRequest struct {
	CampaignID  string `json:"campaignId" validate:"required"`
	Entries     int64  `json:"entries" validate:"gt=0,lte=2147483647"`
	AmountCents int64  `json:"amountCents" validate:"gte=0"`
}

// CreateManualOrder writes a ledger row that did not come from Stripe, e.g.
// an offline donation or a test entry. The session id is synthetic so it can
// never collide with a Checkout session.
func (h *Handler) CreateManualOrder(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req manualOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "admin_manual_order", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.CampaignID = strings.TrimSpace(req.CampaignID)
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "campaign and entries required")
		return
	}

	status := models.OrderStatusNoPaymentRequired
	if req.AmountCents > 0 {
		status = models.OrderStatusPaid
	}
	currency := "usd"
	if h.cfg != nil && h.cfg.Stripe.Currency != "" {
		currency = h.cfg.Stripe.Currency
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	order, err := h.store.UpsertOrder(ctx, models.Order{
		StripeSessionID: "manual_" + uuid.NewString(),
		CampaignID:      req.CampaignID,
		Entries:         req.Entries,
		AmountCents:     req.AmountCents,
		Currency:        currency,
		Status:          status,
	})
	if err != nil {
		logger.Error("action", "action", "admin_manual_order", "status", "db_error", "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	logger.Info("action", "action", "admin_manual_order", "status", "created", "session_id", order.StripeSessionID, "campaign_id", order.CampaignID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "inserted": order})
}

// ReconcileSession replays a Checkout session through the reconciler, for
// deliveries that never reached the webhook.
func (h *Handler) ReconcileSession(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	sessionID := strings.TrimSpace(chi.URLParam(r, "id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id required")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	res, err := h.payments.ReconcileSession(ctx, sessionID)
	switch {
	case errors.Is(err, payments.ErrConfiguration):
		writeError(w, http.StatusInternalServerError, "Missing STRIPE_SECRET_KEY")
		return
	case err != nil:
		logger.Error("action", "action", "admin_reconcile", "status", "stripe_error", "session_id", sessionID, "error", err)
		writeError(w, http.StatusBadGateway, "session lookup failed")
		return
	}

	body := map[string]interface{}{
		"ok":        res.Err == nil,
		"outcome":   res.Outcome,
		"sessionId": res.SessionID,
	}
	if res.Order != nil {
		body["order"] = res.Order
	}
	if res.Err != nil {
		body["error"] = res.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

// Env reports which settings are present without revealing any value.
func (h *Handler) Env(w http.ResponseWriter, r *http.Request) {
	checkout, webhook := false, false
	if h.payments != nil {
		checkout, webhook = h.payments.Configured()
	}
	present := map[string]bool{}
	env := ""
	if h.cfg != nil {
		env = h.cfg.Env
		present["DATABASE_URL"] = h.cfg.DatabaseURL != ""
		present["DATABASE_READ_URL"] = h.cfg.DatabaseReadURL != "" && h.cfg.DatabaseReadURL != h.cfg.DatabaseURL
		present["REDIS_URL"] = h.cfg.RedisURL != ""
		present["STRIPE_SECRET_KEY"] = h.cfg.Stripe.SecretKey != ""
		present["STRIPE_WEBHOOK_SECRET"] = h.cfg.Stripe.WebhookSecret != ""
		present["S3_ENDPOINT"] = h.cfg.S3.Endpoint != ""
		present["S3_ACCESS_KEY"] = h.cfg.S3.AccessKey != ""
		present["JWT_SECRET"] = h.cfg.JWTSecret != ""
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":       true,
		"env":      env,
		"present":  present,
		"checkout": checkout,
		"webhook":  webhook,
		"media":    h.media != nil,
	})
}
