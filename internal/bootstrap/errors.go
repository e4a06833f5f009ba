package bootstrap

import "errors"

var (
	ErrMissingDBURL   = errors.New("DATABASE_URL is required when PG_MIRROR=true")
	ErrUnknownBackend = errors.New("unknown backend")
)
