package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/foodgram/backend/internal/repository"
)

var (
	// ErrNotFound means a referenced recipe, user, tag, ingredient or short link does not exist
	ErrNotFound = repository.ErrNotFound
	// ErrAlreadyExists means a favorite, cart entry or subscription is already present
	ErrAlreadyExists = repository.ErrAlreadyExists
	// ErrNotExists means a favorite, cart entry or subscription to remove is absent
	ErrNotExists = repository.ErrNotExists

	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError reports semantically invalid input for one field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RelationError is a conflict on a favorite, cart entry or subscription.
// It unwraps to ErrAlreadyExists or ErrNotExists.
type RelationError struct {
	Message string
	Err     error
}

func (e *RelationError) Error() string {
	return e.Message
}

func (e *RelationError) Unwrap() error {
	return e.Err
}

// validationFromValidator turns the first validator failure into a ValidationError
func validationFromValidator(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	var message string
	switch fe.Tag() {
	case "required":
		message = "this field is required"
	case "max":
		message = fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "email":
		message = "enter a valid email address"
	case "slug":
		message = "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	case "username":
		message = "enter a valid username; it may contain only letters, numbers and @/./+/-/_ and cannot be \"me\""
	default:
		message = fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
	return newValidationError(fe.Field(), message)
}
