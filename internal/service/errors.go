package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned when login fails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrForbidden is returned when a user may not act on a resource
	ErrForbidden = errors.New("forbidden")

	// ErrAiNotConfigured is returned when an AI operation is requested but
	// no provider key is available for the user
	ErrAiNotConfigured = errors.New("ai provider not configured")
)
