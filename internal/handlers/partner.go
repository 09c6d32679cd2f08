package handlers

import (
	"net/http"
	"strings"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/middleware"
	"love-manager-backend/internal/models"
	"love-manager-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const registrationMessage = "Registration submitted! Please wait for approval."

// PartnerHandler handles partner-related HTTP requests
type PartnerHandler struct {
	partnerService *services.PartnerService
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(partnerService *services.PartnerService) *PartnerHandler {
	return &PartnerHandler{
		partnerService: partnerService,
	}
}

// RegisterResponse is returned by the public registration endpoint
type RegisterResponse struct {
	Message string         `json:"message"`
	Partner models.Partner `json:"partner"`
}

// ListPartners handles GET /api/partners?status=S (default approved)
func (h *PartnerHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := models.StatusApproved
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" {
		status = models.Status(s)
	}

	partners, err := h.partnerService.ListByStatus(ctx, middleware.GetIdentity(ctx), status)
	if err != nil {
		respondServiceError(w, err, "Failed to list partners")
		return
	}

	respondJSON(w, http.StatusOK, partners)
}

// ListPending handles GET /api/partners/pending
func (h *PartnerHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	partners, err := h.partnerService.ListPending(ctx, middleware.GetIdentity(ctx))
	if err != nil {
		respondServiceError(w, err, "Failed to list pending partners")
		return
	}

	respondJSON(w, http.StatusOK, partners)
}

// GetPartner handles GET /api/partners/{id}
func (h *PartnerHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	partner, err := h.partnerService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to get partner")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// GetSummary handles GET /api/partners/{id}/summary
func (h *PartnerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.partnerService.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to summarize partner")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// CreatePartner handles POST /api/partners
func (h *PartnerHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.PartnerAdminCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	partner, err := h.partnerService.CreateApproved(ctx, middleware.GetIdentity(ctx), req)
	if err != nil {
		respondServiceError(w, err, "Failed to create partner")
		return
	}

	respondJSON(w, http.StatusCreated, partner)
}

// Register handles POST /api/partners/register. Any status in the body is ignored.
func (h *PartnerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.PartnerCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	partner, err := h.partnerService.Register(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "Failed to register partner")
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{
		Message: registrationMessage,
		Partner: partner,
	})
}

// UpdatePartner handles PUT /api/partners/{id}
func (h *PartnerHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.PartnerUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	partner, err := h.partnerService.Update(ctx, middleware.GetIdentity(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err, "Failed to update partner")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// DeletePartner handles DELETE /api/partners/{id}
func (h *PartnerHandler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partnerID := chi.URLParam(r, "id")

	if err := h.partnerService.Delete(ctx, middleware.GetIdentity(ctx), partnerID); err != nil {
		respondServiceError(w, err, "Failed to delete partner")
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Partner deleted successfully"})
}

// ToggleFavorite handles PATCH /api/partners/{id}/favorite
func (h *PartnerHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	partner, err := h.partnerService.ToggleFavorite(ctx, middleware.GetIdentity(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to toggle favorite")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// Approve handles PATCH /api/partners/{id}/approve
func (h *PartnerHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	partner, err := h.partnerService.Approve(ctx, middleware.GetIdentity(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to approve partner")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// Reject handles PATCH /api/partners/{id}/reject
func (h *PartnerHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	partner, err := h.partnerService.Reject(ctx, middleware.GetIdentity(ctx), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err, "Failed to reject partner")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// UpdateRating handles PATCH /api/partners/{id}/rating
func (h *PartnerHandler) UpdateRating(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	partnerID := chi.URLParam(r, "id")

	var req models.RatingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Rating == nil {
		respondServiceError(w, errs.Validation("rating", "is required"), "Failed to update rating")
		return
	}

	partner, err := h.partnerService.UpdateRating(ctx, middleware.GetIdentity(ctx), partnerID, *req.Rating)
	if err != nil {
		log.Warn().Err(err).Str("partner_id", partnerID).Int("rating", *req.Rating).Msg("Rating update rejected")
		respondServiceError(w, err, "Failed to update rating")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// AddGift handles POST /api/partners/{id}/gifts
func (h *PartnerHandler) AddGift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var gift models.Gift
	if !decodeJSON(w, r, &gift) {
		return
	}

	partner, err := h.partnerService.AddGift(ctx, middleware.GetIdentity(ctx), chi.URLParam(r, "id"), gift)
	if err != nil {
		respondServiceError(w, err, "Failed to add gift")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// AddMemory handles POST /api/partners/{id}/memories
func (h *PartnerHandler) AddMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var memory models.Memory
	if !decodeJSON(w, r, &memory) {
		return
	}

	partner, err := h.partnerService.AddMemory(ctx, middleware.GetIdentity(ctx), chi.URLParam(r, "id"), memory)
	if err != nil {
		respondServiceError(w, err, "Failed to add memory")
		return
	}

	respondJSON(w, http.StatusOK, partner)
}
