package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public, throttled and admin routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter *ipRateLimiter) {
	r.Get("/", handlers.healthHandler.liveness())
	r.Get("/healthz", handlers.healthHandler.readiness())

	// Public reads
	r.Get("/projects", handlers.projectHandler.listApproved())
	r.Get("/user-limits", handlers.projectHandler.userLimits())

	// Public writes, throttled per IP
	r.Group(func(r chi.Router) {
		r.Use(limiter.middleware)

		r.Post("/projects", handlers.projectHandler.createProject())
		r.Put("/projects/{projectID}", handlers.projectHandler.editProject())
		r.Post("/vote", handlers.projectHandler.vote())
		r.Post("/admin/login", handlers.adminHandler.login())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Get("/admin/projects", handlers.adminHandler.listAll())
		r.Patch("/projects/{projectID}/approve", handlers.adminHandler.approve())
		r.Post("/admin/projects/{projectID}/approve", handlers.adminHandler.approve())
		r.Post("/admin/projects/{projectID}/reject", handlers.adminHandler.reject())
		r.Delete("/projects/{projectID}", handlers.adminHandler.deleteProject())
		r.Post("/nominate", handlers.adminHandler.nominate())
		r.Post("/clear-votes", handlers.adminHandler.clearVotes())
	})
}
