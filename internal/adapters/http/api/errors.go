package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRunFailed    = errors.New("report run failed")
)
