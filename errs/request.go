package errs

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	Unauthorized = NewUnauthorizedError("Unauthorized.")
)

// Authentication & throttling errors
var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingToken       = errors.New("missing access token")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin access not configured")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: ErrUnauthorized, message: message}
}

func NewMissingTokenError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, ErrMissingToken),
		message:    "Missing access token.",
		Field:      "authorization",
	}
}

func NewInvalidTokenError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, ErrInvalidToken),
		message:    "Invalid access token.",
		Field:      "authorization",
		Cause:      cause,
	}
}

func NewInvalidCredentialsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, ErrInvalidCredentials),
		message:    "Invalid email or password.",
	}
}

func NewAdminDisabledError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusUnauthorized,
		err:        fmt.Errorf("%w: %w", ErrUnauthorized, ErrAdminDisabled),
		message:    "Admin access is not configured.",
	}
}

func NewRateLimitError(retryAfter time.Duration) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusTooManyRequests,
		err:        ErrRateLimited,
		message:    "Too many requests, slow down.",
		Details:    fmt.Sprintf("retry after %s", retryAfter.Round(time.Second)),
	}
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInvalidTokenError(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}

func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
