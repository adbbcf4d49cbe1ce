package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/murmurhq/murmur-api/internal/api"
	apiMiddleware "github.com/murmurhq/murmur-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	messageHandler := api.NewMessageHandler(app.messageStore, app.messageFeedCache())
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Authentication endpoints (public)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/login", authHandler.Login)
	})

	// Protected routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/message", messageHandler.CreateMessage)
		r.Get("/messages", messageHandler.ListMessages)
		r.Get("/message/{id}", messageHandler.GetMessage)
		r.Post("/message/like", messageHandler.LikeMessage)
		r.Post("/message/{id}/comment", messageHandler.CommentMessage)
		r.Get("/message/{id}/comments", messageHandler.ListComments)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
