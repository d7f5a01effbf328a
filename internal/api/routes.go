package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", h.HandleListContacts)
			r.Post("/", h.HandleCreateContact)
			r.Get("/{id}", h.HandleGetContact)
			r.Put("/{id}", h.HandleUpdateContact)
		})

		// Agents
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.HandleListAgents)
			r.Post("/", h.HandleCreateAgent)
		})

		// Reference data
		r.Get("/zip-lookup/{zip}", h.HandleZipLookup)
		r.Get("/settings/carriers", h.HandleListCarriers)

		// Import wizard
		r.Route("/import", func(r chi.Router) {
			r.Post("/upload", h.HandleImportUpload)
			r.Post("/{sessionID}/carriers", h.HandleImportCarrierStep)
			r.Post("/{sessionID}/process", h.HandleImportProcess)
			r.Get("/{sessionID}/rejected", h.HandleImportRejected)
		})
	})

	return r
}
