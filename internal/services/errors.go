package services

import (
	"errors"
	"fmt"

	"github.com/quizquest/quiz-service/internal/validator"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidSelection rejects a submission pairing a choice with a
	// question it does not belong to. The whole transaction rolls back.
	ErrInvalidSelection = errors.New("selected choice does not belong to the question")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
)

// PermissionError distinguishes "forbidden" from "unauthenticated"; the
// handler layer maps it to 403.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %d may not %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// NewValidationError wraps a single business rule violation in the shared
// validation error type.
func NewValidationError(field, message string, value interface{}) error {
	return validator.ValidationErrors{{Field: field, Message: message, Value: value}}
}

func IsValidationError(err error) bool {
	var ve validator.ValidationErrors
	return errors.As(err, &ve)
}
