// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the dashboard client's connection to the study server.
//
// [ServerAdapter] hides the REST surface behind typed calls. Non-2xx answers
// are mapped to the sentinel errors in errors.go, so callers can use
// [errors.Is] (e.g. [ErrUnauthorized] for 401, [ErrPromptRequired] for 428).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-study-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter talks to the study server on behalf of one signed-in user.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token, or "".
	Token() string

	// Register creates an account and stores the issued token.
	Register(ctx context.Context, user models.User) error

	// Login signs in and stores the issued token.
	Login(ctx context.Context, user models.User) error

	// Logout invalidates every token of the user and forgets the stored one.
	Logout(ctx context.Context) error

	// RequestPasswordReset asks the server to mail a reset link to email.
	RequestPasswordReset(ctx context.Context, email string) error

	// Version returns the server build metadata.
	Version(ctx context.Context) (models.VersionInfo, error)

	// Dashboard fetches the derived dashboard of the signed-in user.
	Dashboard(ctx context.Context) (models.Dashboard, error)

	// Notifications fetches the active reminders and the badge text.
	Notifications(ctx context.Context) (models.Notifications, error)
}
