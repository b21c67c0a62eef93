package main

import (
	"net/http"

	"github.com/citasmx/citas-api/internal/api"
	apiMiddleware "github.com/citasmx/citas-api/internal/api/middleware"
	"github.com/citasmx/citas-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.metrics.Middleware)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	resourceHandler, err := api.NewResourceHandler(app.resources, app.availability.Location())
	if err != nil {
		return nil, err
	}
	authHandler := api.NewAuthHandler(app.auth)
	availabilityHandler := api.NewAvailabilityHandler(app.availability)
	notificationHandler := api.NewNotificationHandler(app.resender)
	taskHandler := api.NewTaskHandler(app.tasks)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.auth)

	r.Route("/v2", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/token", authHandler.Token)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/me", authHandler.Me)

			resourceHandler.Mount(r, apiMiddleware.RequirePermission)

			r.With(apiMiddleware.RequirePermission(domain.PermCitas)).Group(func(r chi.Router) {
				r.Get("/citas/dias-disponibles", availabilityHandler.Days)
				r.Get("/citas/horas-disponibles", availabilityHandler.Hours)
			})

			r.With(apiMiddleware.RequirePermission(domain.PermNotificaciones)).Group(func(r chi.Router) {
				r.Post("/registros/reenviar", notificationHandler.Resend(domain.PendingRegistration))
				r.Post("/recuperaciones/reenviar", notificationHandler.Resend(domain.PendingRecovery))
				r.Get("/tareas", taskHandler.List)
				r.Get("/tareas/{id}", taskHandler.Get)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r, nil
}
