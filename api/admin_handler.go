package api

import (
	"net/http"
	"time"

	"github.com/George1161/the-legit-website/models"
	"github.com/George1161/the-legit-website/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type adminHandler struct {
	responder Responder
	logger    zerolog.Logger
	projects  *services.ProjectService
	auth      services.AdminAuth
}

func newAdminHandler(projects *services.ProjectService, auth services.AdminAuth) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()

	return adminHandler{
		responder: NewResponder(logger),
		logger:    logger,
		projects:  projects,
		auth:      auth,
	}
}

func (h adminHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, expiresAt, err := h.auth.Login(req.Email, req.Password)
		if err != nil {
			h.logger.Warn().Str("ip", clientIP(r)).Msg("Admin login rejected")
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, loginResponse{
			Success:   true,
			Token:     token,
			ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// listAll returns every project, approved or not, with the submitter IP.
func (h adminHandler) listAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		views := make([]models.AdminProject, 0, len(projects))
		for _, project := range projects {
			views = append(views, project.AdminView())
		}
		h.responder.WriteJSON(w, views)
	}
}

func (h adminHandler) approve() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Approve(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", projectID.String()).Str("admin", adminSubject(r)).Msg("Project approved")
		h.responder.WriteProject(w, project)
	}
}

func (h adminHandler) reject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projects.Reject(r.Context(), projectID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, envelope{Success: true})
	}
}

func (h adminHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Delete(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteProject(w, project)
	}
}

func (h adminHandler) nominate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := bodyProjectID(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Nominate(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteProject(w, project)
	}
}

func (h adminHandler) clearVotes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := bodyProjectID(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.ClearVotes(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("projectID", projectID.String()).Str("admin", adminSubject(r)).Msg("Votes cleared")
		h.responder.WriteProject(w, project)
	}
}

func adminSubject(r *http.Request) string {
	subject, _ := ctxGetAdmin(r.Context())
	return subject
}
