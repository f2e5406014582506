package api

import (
	"time"

	"github.com/George1161/the-legit-website/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(projects *services.ProjectService, auth services.AdminAuth, maxImageBytes int64, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(projects, maxImageBytes),
		adminHandler:   newAdminHandler(projects, auth),
		healthHandler:  newHealthHandler(projects, startupTime),
	}
}
