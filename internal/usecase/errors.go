package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrMissingReference      = errors.New("missing reference")
	ErrNoData                = errors.New("no data received")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrRunInProgress         = errors.New("ingestion run already in progress")
)
