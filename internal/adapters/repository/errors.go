package repository

import "errors"

// Sentinel kinds for persistence errors.
var (
	ErrPersistence    = errors.New("persistence failure")
	ErrUnknownBackend = errors.New("unknown store backend")
)
