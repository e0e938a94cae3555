package gateway

import (
	"context"
	"io"

	"github.com/MKhiriev/go-study-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// Authenticator is the part of the authentication collaborator the gateway
// depends on. Implementations report a failed challenge with
// [ErrInvalidCredential] and an expired identity with [ErrStaleSession].
type Authenticator interface {
	Reauthenticate(ctx context.Context, userID int64, credential models.Credential) error
	ChangeEmail(ctx context.Context, userID int64, email string) error
	ChangePassword(ctx context.Context, userID int64, newPassword string) error
	DeleteIdentity(ctx context.Context, userID int64) error
	SignOut(ctx context.Context, userID int64) error
	SendPasswordReset(ctx context.Context, email string) error
}

// Prompter asks the user. Confirm and Credential block until the user
// answers; ok is false when the user cancelled. Errors returned by a
// Prompter are passed through to the caller unchanged.
type Prompter interface {
	Confirm(ctx context.Context, prompt models.Prompt) (ok bool, err error)
	Credential(ctx context.Context, prompt models.Prompt) (credential models.Credential, ok bool, err error)
	Inform(ctx context.Context, message string)
}

// FileStorage keeps uploaded files and returns their public URL.
type FileStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
}
