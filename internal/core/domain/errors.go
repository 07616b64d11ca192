package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already registered")
	ErrInvalidPassword  = errors.New("incorrect password")
	ErrInvalidSession   = errors.New("invalid session")
	ErrPostNotFound     = errors.New("post not found")
	ErrForbidden        = errors.New("forbidden")
	ErrQuestionNotFound = errors.New("question not found")
	ErrInvalidChoice    = errors.New("invalid choice for this question")

	ErrInvalidExpression = errors.New("invalid expression")
	ErrDivisionByZero    = errors.New("division by zero")

	ErrValidation = errors.New("validation failed")
	ErrInternal   = errors.New("internal server error")
)

// ValidationError carries a message meant to be shown to the user as-is.
// Err optionally names the underlying sentinel.
type ValidationError struct {
	Message string
	Err     error
}

func NewValidationError(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
