// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"

	"github.com/MKhiriev/go-study-keeper/models"
)

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is present but cannot be split into at least two space-separated
	// parts (i.e. the token value is missing entirely).
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)

// Request errors raised by handlers before the service layer is reached.
var (
	// ErrInvalidJSON is returned when the request body is not the expected JSON.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidUpload is returned when an avatar upload carries no image.
	ErrInvalidUpload = errors.New("no image in upload")

	// ErrNoSession is returned when an authenticated route runs without a
	// user id in its context.
	ErrNoSession = errors.New("no signed-in user in request context")
)

// PromptRequiredError is returned by the header prompter when a mutation
// asks a question the request carried no answer for. The client shows
// Prompt and retries with the answer in Header.
type PromptRequiredError struct {
	Prompt models.Prompt
	Header string
}

func (e *PromptRequiredError) Error() string {
	return "answer required in " + e.Header + ": " + e.Prompt.Message
}
