package core

import "fmt"

// ValidationError marks bad input shape or range. Maps to HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a missing row — or an unauthorized target, deliberately
// merged so a caller cannot distinguish "doesn't exist" from "not yours".
// Maps to HTTP 404.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func notFoundf(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// AuthError marks failed authentication or insufficient role. Maps to 401/403.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }
