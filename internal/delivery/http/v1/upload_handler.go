package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"productpraat-backend/pkg/logger"
	"productpraat-backend/pkg/storage"
	"productpraat-backend/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

type UploadHandler struct {
	storage       *storage.R2Storage
	maxUploadSize int64
}

func NewUploadHandler(s *storage.R2Storage, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{
		storage:       s,
		maxUploadSize: maxUploadSizeMB << 20, // Convert MB to bytes
	}
}

// UploadFile stores an image verbatim in object storage and returns its
// public URL. Bol.com already serves resized product imagery, so no
// server-side processing happens here.
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		logger.WithContext(r.Context()).Warn().Err(err).Msg("upload: multipart parse failed")
		utils.WriteError(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file extension")
		return
	}

	url, err := h.storage.UploadFile(r.Context(), file, header)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
