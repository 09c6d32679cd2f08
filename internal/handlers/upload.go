package handlers

import (
	"net/http"

	"love-manager-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// UploadHandler handles image hosting requests. A nil service means no
// bucket is configured.
type UploadHandler struct {
	imageService *services.ImageService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(imageService *services.ImageService) *UploadHandler {
	return &UploadHandler{
		imageService: imageService,
	}
}

// UploadRequest carries a data URL or raw base64 image
type UploadRequest struct {
	Image string `json:"image"`
}

// UploadImage handles POST /api/upload/upload
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.imageService == nil {
		respondError(w, "Image upload is not configured", http.StatusServiceUnavailable)
		return
	}

	var req UploadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Image == "" {
		respondError(w, "No image provided", http.StatusBadRequest)
		return
	}

	result, err := h.imageService.Upload(r.Context(), req.Image)
	if err != nil {
		respondServiceError(w, err, "Failed to upload image")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// DeleteImage handles DELETE /api/upload/delete/{publicId}. The id may
// contain slashes.
func (h *UploadHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if h.imageService == nil {
		respondError(w, "Image upload is not configured", http.StatusServiceUnavailable)
		return
	}

	if err := h.imageService.Delete(r.Context(), chi.URLParam(r, "*")); err != nil {
		respondServiceError(w, err, "Failed to delete image")
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Image deleted successfully"})
}
