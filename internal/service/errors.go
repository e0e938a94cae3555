package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	// ErrSessionsClosed is returned by Sessions after Close.
	ErrSessionsClosed = errors.New("live sessions are closed")

	// ErrGradesLoading is returned while a subject's grades have not loaded.
	ErrGradesLoading = errors.New("subject grades are still loading")
)
