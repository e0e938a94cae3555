package service

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/models"
)

// AuthService manages sign-in identities and session tokens. It is also the
// gateway's re-authentication collaborator.
type AuthService interface {
	gateway.Authenticator

	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	// ParseToken rejects tokens whose session version is no longer current.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
	// ResetPassword sets a new password using a token sent by
	// SendPasswordReset.
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.VersionInfo
}

// Mailer delivers transactional e-mail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
}
