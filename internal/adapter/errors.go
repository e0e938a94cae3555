package adapter

import "errors"

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrPromptRequired      = errors.New("confirmation required")
	ErrValidation          = errors.New("validation failed")
	ErrUnavailable         = errors.New("server unavailable")
	ErrInternalServerError = errors.New("internal server error")
)
