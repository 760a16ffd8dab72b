package services

import "fmt"

// ValidationError reports a request rejected before any write: a missing
// required field or a malformed answer key.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a quiz, question, user, or session reference
// that does not resolve.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}
