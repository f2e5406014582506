package errs

import (
	"errors"
	"net/http"
)

// Submission, edit and vote policy errors
var (
	ErrValidation          = errors.New("validation failed")
	ErrQuotaExceeded       = errors.New("submission quota exceeded")
	ErrNotOwner            = errors.New("not the project owner")
	ErrEditLimitReached    = errors.New("edit limit reached")
	ErrAlreadyVoted        = errors.New("already voted")
	ErrImageUploadDisabled = errors.New("image uploads disabled")
)

func NewMissingFieldsError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrValidation,
		message:    "Missing required fields.",
	}
}

func NewQuotaExceededError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrQuotaExceeded,
		message:    "You have reached the submission limit for this IP.",
	}
}

func NewNotOwnerError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrNotOwner,
		message:    "You can only edit your own project.",
	}
}

func NewEditLimitReachedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrEditLimitReached,
		message:    "Edit limit reached for this project.",
	}
}

func NewAlreadyVotedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusForbidden,
		err:        ErrAlreadyVoted,
		message:    "You have already voted for this project.",
	}
}

func NewImageUploadDisabledError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrImageUploadDisabled,
		message:    "Image uploads are not enabled.",
	}
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

func IsNotOwner(err error) bool {
	return errors.Is(err, ErrNotOwner)
}

func IsEditLimitReached(err error) bool {
	return errors.Is(err, ErrEditLimitReached)
}

func IsAlreadyVoted(err error) bool {
	return errors.Is(err, ErrAlreadyVoted)
}
