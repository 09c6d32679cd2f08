package handlers

import (
	"net/http"

	"love-manager-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// HealthHandler reports liveness and store reachability
type HealthHandler struct {
	partnerService *services.PartnerService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(partnerService *services.PartnerService) *HealthHandler {
	return &HealthHandler{partnerService: partnerService}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.partnerService.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
