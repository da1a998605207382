package domain

import "errors"

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrQuotaExceeded = errors.New("daily quota exceeded")
	ErrConfiguration = errors.New("configuration error")
)
