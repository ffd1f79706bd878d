package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/tango-api/internal/api"
	apiMiddleware "github.com/phrazzld/tango-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.hasher)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	wordHandler := api.NewWordHandler(app.wordStore, app.userStore, app.statsStore)
	reviewHandler := api.NewReviewHandler(app.reviewService)
	studyHandler := api.NewStudyHandler(app.studyService)
	settingsHandler := api.NewSettingsHandler(app.settingsStore)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Word management endpoints
			r.Post("/words", wordHandler.Create)
			r.Get("/words", wordHandler.List)
			r.Get("/words/{id}", wordHandler.Get)
			r.Put("/words/{id}", wordHandler.Update)
			r.Delete("/words/{id}", wordHandler.Delete)
			r.Post("/words/{id}/mastered", wordHandler.SetMastered)

			// Review endpoints
			r.Post("/words/{id}/review", reviewHandler.Submit)
			r.Get("/words/{id}/preview", reviewHandler.Preview)

			// Study session endpoints
			r.Get("/study/queue", studyHandler.Queue)
			r.Get("/study/practice", studyHandler.Practice)
			r.Post("/study/practice", studyHandler.RecordPractice)
			r.Get("/stats/today", studyHandler.TodayStats)

			// Settings endpoints
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
