package api

import (
	"context"
	"net/http"
	"time"

	"github.com/George1161/the-legit-website/services"
	"github.com/rs/zerolog/log"
)

const livenessMessage = "The Legit backend is running."

type healthHandler struct {
	responder   Responder
	projects    *services.ProjectService
	startupTime time.Time
}

func newHealthHandler(projects *services.ProjectService, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{
		responder:   NewResponder(logger),
		projects:    projects,
		startupTime: startupTime,
	}
}

func (h healthHandler) liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, livenessResponse{Status: "ok", Message: livenessMessage})
	}
}

// readiness also pings the store, answering 503 when it is unreachable.
func (h healthHandler) readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Store: "ok", UptimeSec: int64(time.Since(h.startupTime).Seconds())}
		if err := h.projects.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Store ping failed")
			resp.Status, resp.Store = "degraded", "unreachable"
			h.responder.WriteJSONStatus(w, http.StatusServiceUnavailable, resp)
			return
		}
		h.responder.WriteJSON(w, resp)
	}
}
