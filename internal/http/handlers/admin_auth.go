package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shaneclick1-cyber/Kinddraw/internal/auth"

	"golang.org/x/crypto/bcrypt"
)

type adminAuthRequest struct {
	Password string `json:"password" validate:"required"`
}

// AuthAdmin exchanges the admin password for a short-lived bearer token.
func (h *Handler) AuthAdmin(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	var req adminAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_json")
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_credentials")
		writeError(w, http.StatusBadRequest, "password required")
		return
	}
	if h.cfg == nil || !h.cfg.AdminEnabled() {
		logger.Warn("action", "action", "auth_admin", "status", "disabled")
		writeError(w, http.StatusUnauthorized, "admin login disabled")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPassHash), []byte(req.Password)); err != nil {
		logger.Warn("action", "action", "auth_admin", "status", "invalid_credentials")
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.SignAdminToken(h.cfg.JWTSecret, h.now())
	if err != nil {
		logger.Error("action", "action", "auth_admin", "status", "token_error", "error", err)
		writeError(w, http.StatusInternalServerError, "token error")
		return
	}

	logger.Info("action", "action", "auth_admin", "status", "success")
	writeJSON(w, http.StatusOK, map[string]interface{}{"accessToken": token})
}
