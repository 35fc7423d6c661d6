package service

import (
	"errors"

	"civicconnect/internal/repository"
)

// User-facing error taxonomy. Handlers translate these into flash
// messages and redirects; anything else is an internal error that is
// logged server-side and never echoed to the client.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbidden          = errors.New("not allowed")
	ErrNotFound           = repository.ErrNotFound
	ErrDuplicateEmail     = repository.ErrDuplicateEmail
	ErrInvalidWard        = errors.New("invalid ward number")
	ErrInvalidWardCode    = errors.New("invalid ward code")
	ErrValidation         = errors.New("missing or invalid field")
)
