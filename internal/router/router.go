// Package router assembles the HTTP surface.
package router

import (
	"net/http"
	"strings"

	"love-manager-backend/internal/handlers"
	"love-manager-backend/internal/metrics"
	"love-manager-backend/internal/middleware"
	"love-manager-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Options carries the services the routes are served from. ImageService
// may be nil when no bucket is configured.
type Options struct {
	PartnerService *services.PartnerService
	AuthService    *services.AuthService
	ImageService   *services.ImageService
	Metrics        *metrics.Metrics
	CORSOrigins    []string
	MaxBodyBytes   int64
	AccessLog      bool
}

// New builds the chi router
func New(opts Options) http.Handler {
	partnerHandler := handlers.NewPartnerHandler(opts.PartnerService)
	authHandler := handlers.NewAuthHandler(opts.AuthService)
	uploadHandler := handlers.NewUploadHandler(opts.ImageService)
	healthHandler := handlers.NewHealthHandler(opts.PartnerService)

	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	if opts.AccessLog {
		r.Use(chiMiddleware.Logger)
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware(opts.CORSOrigins))
	if opts.MaxBodyBytes > 0 {
		r.Use(chiMiddleware.RequestSize(opts.MaxBodyBytes))
	}

	r.Get("/health", healthHandler.Health)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.AuthService))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/create-admin", authHandler.CreateAdmin)
			r.With(middleware.RequireAdmin).Post("/logout", authHandler.Logout)
		})

		r.Route("/partners", func(r chi.Router) {
			// Public routes
			r.Get("/", partnerHandler.ListPartners)
			r.Post("/register", partnerHandler.Register)
			r.Get("/{id}", partnerHandler.GetPartner)
			r.Get("/{id}/summary", partnerHandler.GetSummary)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/pending", partnerHandler.ListPending)
				r.Post("/", partnerHandler.CreatePartner)
				r.Put("/{id}", partnerHandler.UpdatePartner)
				r.Delete("/{id}", partnerHandler.DeletePartner)
				r.Patch("/{id}/favorite", partnerHandler.ToggleFavorite)
				r.Patch("/{id}/approve", partnerHandler.Approve)
				r.Patch("/{id}/reject", partnerHandler.Reject)
				r.Patch("/{id}/rating", partnerHandler.UpdateRating)
				r.Post("/{id}/gifts", partnerHandler.AddGift)
				r.Post("/{id}/memories", partnerHandler.AddMemory)
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Post("/upload", uploadHandler.UploadImage)
			r.With(middleware.RequireAdmin).Delete("/delete/*", uploadHandler.DeleteImage)
		})
	})

	return r
}

// corsMiddleware handles CORS for the configured origins; "*" allows any
func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
