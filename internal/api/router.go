package api

import (
	"database/sql"

	"github.com/astreus-ai/astreus-admin-be/internal/api/handlers"
	"github.com/astreus-ai/astreus-admin-be/internal/auth"
	"github.com/astreus-ai/astreus-admin-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterDeps bundles everything the router needs wired in.
type RouterDeps struct {
	DB            *sql.DB
	Verifier      *auth.Verifier
	Tokens        *auth.TokenManager
	PluginService services.PluginServiceProvider
	UserService   services.UserServiceProvider
	CORSOrigin    string
	IsProd        bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// The browser admin UI lives on the website origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.DB)
	authHandler := handlers.NewAuthHandler(deps.UserService, deps.Tokens, deps.Verifier, deps.IsProd)
	pluginHandler := handlers.NewPluginHandler(deps.PluginService)
	userHandler := handlers.NewUserHandler(deps.UserService)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		r.Route("/plugins", func(r chi.Router) {
			// Catalog reads are public
			r.Get("/", pluginHandler.List)
			r.Get("/{id}", pluginHandler.Get)

			// Writes require the administrator flag
			r.Group(func(r chi.Router) {
				r.Use(deps.Verifier.RequireAdmin)
				r.Post("/", pluginHandler.Create)
				r.Put("/{id}", pluginHandler.Update)
				r.Delete("/{id}", pluginHandler.Delete)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(deps.Verifier.RequireAdmin)
			r.Get("/", userHandler.GetAll)
			r.Post("/", userHandler.Create)
			r.Get("/{id}", userHandler.Get)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	return r
}
