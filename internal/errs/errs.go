package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Every failure of a core operation is one of these; callers match with errors.Is.
var (
	ErrDuplicateTitle   = errors.New("duplicate title")
	ErrAlreadyJoined    = errors.New("already joined")
	ErrNotOwner         = errors.New("not owner")
	ErrSelfVote         = errors.New("self vote")
	ErrNoVotesRemaining = errors.New("no votes remaining")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// this lets errors.Is(err, ErrValidation) match any ValidationError
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// FromValidator converts the first failing rule reported by validator into a ValidationError.
// Errors that did not come from validator are wrapped as-is.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
		}
		return Invalid(strings.ToLower(fe.Field()), "failed "+reason)
	}
	return &ValidationError{Reason: err.Error()}
}

func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner), errors.Is(err, ErrSelfVote):
		return http.StatusForbidden
	case errors.Is(err, ErrDuplicateTitle), errors.Is(err, ErrAlreadyJoined), errors.Is(err, ErrAlreadyVoted):
		return http.StatusConflict
	case errors.Is(err, ErrNoVotesRemaining):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
