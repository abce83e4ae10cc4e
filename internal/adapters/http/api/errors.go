package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)
