package handlers

import (
	"net/http"

	"love-manager-backend/internal/middleware"
	"love-manager-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// CredentialsRequest is the body of login and create-admin
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminView is the public part of an admin account
type AdminView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	Admin   AdminView `json:"admin"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		if statusFor(err) == http.StatusUnauthorized {
			respondError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		respondServiceError(w, err, "Failed to log in")
		return
	}

	log.Info().Str("admin", result.Admin.Username).Msg("Admin logged in")

	respondJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   result.Token,
		Admin: AdminView{
			ID:       result.Admin.ID,
			Username: result.Admin.Username,
			Role:     result.Admin.Role,
		},
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.GetIdentity(r.Context())); err != nil {
		respondServiceError(w, err, "Failed to log out")
		return
	}

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}

// CreateAdmin handles POST /api/auth/create-admin
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	admin, err := h.authService.CreateAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err, "Failed to create admin")
		return
	}

	log.Info().Str("admin", admin.Username).Msg("Admin created")
	respondJSON(w, http.StatusCreated, MessageResponse{Message: "Admin created successfully"})
}
