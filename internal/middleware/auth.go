package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"
	"love-manager-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const identityKey contextKey = "identity"

// Authenticate attaches the bearer token's identity to the request context.
// Requests without an Authorization header pass through anonymously; a
// header that does not carry a valid token is rejected.
func Authenticate(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			identity, err := authService.ValidateJWT(r.Context(), parts[1])
			if err != nil {
				if !errors.Is(err, errs.ErrUnauthorized) {
					log.Error().Err(err).Msg("Failed to validate token")
					respondError(w, "Failed to validate token", http.StatusInternalServerError)
					return
				}
				respondError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdmin rejects requests that carry no identity
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetIdentity(r.Context()) == nil {
			respondError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a copy of ctx carrying identity
func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity extracts the identity from context, nil when anonymous
func GetIdentity(ctx context.Context) *models.Identity {
	identity, ok := ctx.Value(identityKey).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
