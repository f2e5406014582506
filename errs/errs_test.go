package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     *ApiErr
		status  int
		message string
		is      func(error) bool
	}{
		{"missing fields", NewMissingFieldsError(), http.StatusBadRequest, "Missing required fields.", IsValidationError},
		{"quota", NewQuotaExceededError(), http.StatusForbidden, "You have reached the submission limit for this IP.", IsQuotaExceeded},
		{"not owner", NewNotOwnerError(), http.StatusForbidden, "You can only edit your own project.", IsNotOwner},
		{"edit limit", NewEditLimitReachedError(), http.StatusForbidden, "Edit limit reached for this project.", IsEditLimitReached},
		{"already voted", NewAlreadyVotedError(), http.StatusForbidden, "You have already voted for this project.", IsAlreadyVoted},
		{"not found", NewNotFound("project"), http.StatusNotFound, "Project not found.", IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode)
			assert.Equal(t, tt.message, tt.err.Message())
			assert.Equal(t, tt.message, tt.err.Error())

			wrapped := fmt.Errorf("handler: %w", tt.err)
			assert.True(t, tt.is(wrapped))
			assert.Equal(t, tt.status, StatusCode(wrapped))
		})
	}
}

func TestStorageErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("insert", "project", cause)

	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.True(t, IsStorageError(err))
	assert.Equal(t, "failed to insert project", err.Message())
	assert.Contains(t, err.GetFullError(), "connection refused")
	assert.False(t, IsNotFound(err))
}

func TestUnauthorizedErrors(t *testing.T) {
	for _, err := range []*ApiErr{
		NewMissingTokenError(),
		NewInvalidTokenError(errors.New("signature is invalid")),
		NewInvalidCredentialsError(),
		NewAdminDisabledError(),
		Unauthorized,
	} {
		assert.True(t, IsUnauthorized(err), err.Error())
		assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	}

	assert.True(t, IsInvalidTokenError(NewInvalidTokenError(nil)))
	assert.False(t, IsInvalidTokenError(NewMissingTokenError()))
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError(1500 * time.Millisecond)

	assert.Equal(t, http.StatusTooManyRequests, err.StatusCode)
	assert.True(t, IsRateLimitError(err))
	assert.Equal(t, "Too many requests, slow down.", err.Message())
	assert.Contains(t, err.Error(), "retry after 2s")
}

func TestStatusCodeDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("boom")))
}
