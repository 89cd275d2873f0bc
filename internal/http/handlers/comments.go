package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shaneclick1-cyber/Kinddraw/internal/models"

	"github.com/go-chi/chi/v5"
)

const (
	maxDisplayNameLen = 80
	maxCommentLen     = 2000
)

type commentRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Body        string `json:"body" validate:"required"`
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "campaign id required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	comments, err := h.store.ListComments(ctx, id, limit)
	if err != nil {
		h.loggerForRequest(r).Error("action", "action", "list_comments", "status", "db_error", "campaign_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "campaign id required")
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "add_comment", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Body = strings.TrimSpace(req.Body)
	if err := h.validator.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Please add your name and a comment.")
		return
	}
	if utf8.RuneCountInString(req.DisplayName) > maxDisplayNameLen || utf8.RuneCountInString(req.Body) > maxCommentLen {
		writeError(w, http.StatusBadRequest, "comment too long")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()
	created, err := h.store.AddComment(ctx, models.Comment{
		CampaignID:  id,
		DisplayName: req.DisplayName,
		Body:        req.Body,
	})
	if err != nil {
		logger.Error("action", "action", "add_comment", "status", "db_error", "campaign_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "db error")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
