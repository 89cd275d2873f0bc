package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shaneclick1-cyber/Kinddraw/internal/campaign"
	"github.com/shaneclick1-cyber/Kinddraw/internal/repository"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "campaign id required")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	c, err := h.store.GetCampaign(ctx, id)
	if errors.Is(err, repository.ErrCampaignNotFound) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}
	if err != nil {
		logger.Error("action", "action", "get_campaign", "status", "db_error", "campaign_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	totals, err := h.store.CampaignTotals(ctx, id)
	if err != nil {
		logger.Error("action", "action", "get_campaign", "status", "totals_error", "campaign_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}

	writeJSON(w, http.StatusOK, campaign.BuildView(c, totals))
}

// CampaignTotals reports the confirmed ledger sums for any campaign id,
// including ids that never went through the lead form.
func (h *Handler) CampaignTotals(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "campaign id required")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	totals, err := h.store.CampaignTotals(ctx, id)
	if err != nil {
		h.loggerForRequest(r).Error("action", "action", "campaign_totals", "status", "db_error", "campaign_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

func (h *Handler) CampaignQR(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "campaign id required")
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))

	png, err := campaign.GenerateQRImagePNG(campaign.ShareURL(requestOrigin(r), id), size)
	if err != nil {
		h.loggerForRequest(r).Error("action", "action", "campaign_qr", "status", "encode_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "qr error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
