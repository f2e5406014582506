package api

import (
	"net/http"

	"github.com/George1161/the-legit-website/models"
	"github.com/George1161/the-legit-website/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder     Responder
	logger        zerolog.Logger
	projects      *services.ProjectService
	maxImageBytes int64
}

func newProjectHandler(projects *services.ProjectService, maxImageBytes int64) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()
	if maxImageBytes <= 0 {
		maxImageBytes = services.DefaultMaxImageBytes
	}

	return projectHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		projects:      projects,
		maxImageBytes: maxImageBytes,
	}
}

// listApproved returns the public gallery as a bare array, newest first.
func (h projectHandler) listApproved() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projects.ListApproved(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if projects == nil {
			projects = []*models.Project{}
		}
		h.responder.WriteJSON(w, projects)
	}
}

func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submission, err := decodeSubmission(w, r, h.maxImageBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer submission.close()

		project, err := h.projects.Create(r.Context(), services.SubmissionInput{
			Fields: submission.fields,
			Image:  submission.image,
			IP:     clientIP(r),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteProject(w, project)
	}
}

func (h projectHandler) editProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		submission, err := decodeSubmission(w, r, h.maxImageBytes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer submission.close()

		project, err := h.projects.Edit(r.Context(), projectID, services.SubmissionInput{
			Fields: submission.fields,
			Image:  submission.image,
			IP:     clientIP(r),
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteProject(w, project)
	}
}

func (h projectHandler) vote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := bodyProjectID(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projects.Vote(r.Context(), projectID, clientIP(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteProject(w, project)
	}
}

// userLimits reports the caller's remaining submissions and per-project edits.
func (h projectHandler) userLimits() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limits, err := h.projects.UserLimits(r.Context(), clientIP(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, limits)
	}
}
