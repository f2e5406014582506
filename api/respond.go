package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/George1161/the-legit-website/errs"
	"github.com/rs/zerolog"
)

const internalErrorMessage = "Internal server error"

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

// WriteJSON writes data with a 200 status.
func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteProject writes the mutation envelope around a single project.
func (r Responder) WriteProject(w http.ResponseWriter, project any) {
	r.WriteJSON(w, envelope{Success: true, Project: project})
}

// WriteError maps err onto the envelope. Anything that is not a client error
// is logged and answered with a generic message.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	errors.As(err, &apiErr)

	status := errs.StatusCode(err)
	if status >= http.StatusInternalServerError {
		event := r.logger.Error().Err(err).Int("status", status)
		if apiErr != nil {
			event = event.Str("detail", apiErr.GetFullError())
		}
		event.Msg("request failed")
		r.WriteJSONStatus(w, http.StatusInternalServerError, envelope{Success: false, Message: internalErrorMessage})
		return
	}

	r.WriteJSONStatus(w, status, envelope{
		Success: false,
		Message: apiErr.Message(),
		Field:   apiErr.Field,
	})
}
