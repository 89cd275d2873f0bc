package handlers

import (
	"net/http"
	"strings"
)

const maxUploadSize = 5 * 1024 * 1024

var allowedUploadTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// Upload stores a campaign photo posted as the multipart field "file".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	logger := h.loggerForRequest(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024*1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusBadRequest, "file too large")
		return
	}
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" {
		contentType = "image/jpeg"
	}
	if _, ok := allowedUploadTypes[contentType]; !ok {
		writeError(w, http.StatusBadRequest, "invalid content type")
		return
	}

	if h.media == nil {
		writeError(w, http.StatusInternalServerError, "media not configured")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	url, err := h.media.UploadObject(ctx, header.Filename, contentType, file, header.Size)
	if err != nil {
		logger.Error("action", "action", "upload", "status", "storage_error", "error", err)
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	logger.Info("action", "action", "upload", "status", "stored", "size", header.Size)
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "url": url})
}
