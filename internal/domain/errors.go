package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoActiveChat    = errors.New("no active chat")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session state not found")
)

// ValidationError is a client-side rejection raised before any request
// leaves the process.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
