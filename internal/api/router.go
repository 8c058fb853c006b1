package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/avelis/estate-be/internal/api/handlers"
	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/config"
	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/services"
	"github.com/avelis/estate-be/internal/websocket"
)

// NewRouter creates and configures the Chi router wiring the auth, user,
// listing and event modules behind the shared middleware stack.
func NewRouter(
	cfg *config.Config,
	db *database.Database,
	tokens *auth.Manager,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	listingService services.ListingServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(userService, tokens, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(userService)
	listingHandler := handlers.NewListingHandler(listingService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := handlers.RequireAuth(tokens)

	r.Get("/", healthHandler.Root)

	r.Route("/api", func(r chi.Router) {
		// Probes and the feed stay reachable with the store down.
		r.Get("/health", healthHandler.Health)
		r.Get("/ready", healthHandler.Ready)
		r.Get("/ws", wsHandler.Serve)

		// Everything below touches the document store.
		r.Group(func(r chi.Router) {
			r.Use(handlers.EnsureDatabase(db))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/signup", authHandler.Signup)
				r.Post("/signin", authHandler.Signin)
				r.Post("/signout", authHandler.Signout)
				r.With(requireAuth).Get("/me", authHandler.Me)
			})

			r.Route("/user", func(r chi.Router) {
				r.Use(requireAuth)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", userHandler.Get)
					r.Put("/", userHandler.Update)
					r.Delete("/", userHandler.Delete)
				})
			})

			r.Route("/listing", func(r chi.Router) {
				r.Get("/", listingHandler.List)
				r.With(requireAuth).Post("/", listingHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", listingHandler.Get)
					r.With(requireAuth).Put("/", listingHandler.Update)
					r.With(requireAuth).Delete("/", listingHandler.Delete)
				})
			})

			r.With(requireAuth).Get("/events", eventHandler.Recent)
		})
	})

	return r
}
