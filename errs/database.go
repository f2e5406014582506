package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage failure")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrTransactionFailed         = errors.New("transaction failed")
)

func NewAlreadyExists(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
	}
}

func NewNotFound(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        ErrNotFound,
		message:    fmt.Sprintf("%s not found.", capitalize(entity)),
	}
}

// NewStorageError wraps a failure of the underlying store. The details stay in
// the logs; clients only get the generic internal error message.
func NewStorageError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorage,
		Details:    fmt.Sprintf("failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

func NewUniqueConstraintViolationError(entity, field string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrUniqueConstraintViolation,
		Details:    fmt.Sprintf("%s with this %s already exists", entity, field),
		Field:      field,
		Cause:      cause,
	}
}

func NewTransactionFailedError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrTransactionFailed,
		Details:    fmt.Sprintf("Transaction failed during %s", operation),
		Cause:      cause,
	}
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage) || errors.Is(err, ErrTransactionFailed)
}

func IsUniqueConstraintViolationError(err error) bool {
	return errors.Is(err, ErrUniqueConstraintViolation)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
