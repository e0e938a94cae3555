package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

// authService is the concrete implementation of AuthService.
// It handles registration, credential verification, the JWT session
// lifecycle and password resets, using a UserRepository for persistence and
// bcrypt for password hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	validator validators.Validator
	mailer    Mailer

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued session JWT remains valid.
	tokenDuration time.Duration

	resetTokenDuration time.Duration
	resetURL           string

	// hashCost is the bcrypt work factor.
	hashCost int

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given UserRepository
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(userRepository store.UserRepository, validator validators.Validator, mailer Mailer, cfg config.StructuredConfig, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:     userRepository,
		validator:          validator,
		mailer:             mailer,
		tokenSignKey:       cfg.App.TokenSignKey,
		tokenIssuer:        cfg.App.TokenIssuer,
		tokenDuration:      cfg.App.TokenDuration,
		resetTokenDuration: cfg.App.ResetTokenDuration,
		resetURL:           cfg.Mail.ResetURL,
		hashCost:           bcrypt.DefaultCost,
		logger:             logger,
	}
}

// RegisterUser creates a new user account.
//
// The e-mail and password are validated, the password is hashed with bcrypt
// and persistence is delegated to the UserRepository.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - a *validators.FieldError when the e-mail or password is malformed.
//   - A wrapped storage error if the repository call fails (e.g. e-mail
//     already taken, see store.ErrLoginAlreadyExists).
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	user.Email = strings.TrimSpace(user.Email)
	if err := a.validator.Validate(ctx, user); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("invalid user data provided")
		return models.User{}, err
	}

	hash, err := a.hashPassword(user.Password)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = hash
	user.Password = ""

	registeredUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing user.
//
// Returns the authenticated user record or:
//   - ErrInvalidDataProvided if Email or Password is empty.
//   - A wrapped storage error if the repository lookup fails (e.g. user not
//     found, see store.ErrNoUserWasFound).
//   - ErrWrongPassword if the password does not match the stored hash.
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	email := strings.TrimSpace(user.Email)
	if email == "" || user.Password == "" {
		log.Error().Str("email", email).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !checkPassword(foundUser.PasswordHash, user.Password) {
		log.Warn().Int64("id", foundUser.UserID).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return foundUser, nil
}

// CreateToken issues a signed session JWT pinned to the user's current
// session version.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, utils.AudienceSession, user.UserID, user.SessionVersion, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates a raw session JWT and checks that its session version
// is still the user's current one. Every failure is normalised to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := a.parseVersioned(ctx, tokenString, utils.AudienceSession)
	if err != nil {
		return models.Token{}, err
	}
	return token, nil
}

func (a *authService) parseVersioned(ctx context.Context, tokenString, audience string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer, audience)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, token.UserID)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Int64("user_id", token.UserID).Msg("token owner lookup failed")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}
	if user.SessionVersion != token.SessionVersion {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// Reauthenticate checks cred against the stored password of userID.
func (a *authService) Reauthenticate(ctx context.Context, userID int64, cred models.Credential) error {
	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPassword(user.PasswordHash, cred.Password) {
		logger.FromContext(ctx).Warn().Int64("user_id", userID).Msg("re-authentication failed")
		return gateway.ErrInvalidCredential
	}
	return nil
}

// ChangeEmail moves the sign-in address. The repository bumps the session
// version.
func (a *authService) ChangeEmail(ctx context.Context, userID int64, email string) error {
	return a.userRepository.UpdateEmail(ctx, userID, email)
}

// ChangePassword stores a new bcrypt hash. The repository bumps the session
// version.
func (a *authService) ChangePassword(ctx context.Context, userID int64, password string) error {
	hash, err := a.hashPassword(password)
	if err != nil {
		return err
	}
	return a.userRepository.UpdatePasswordHash(ctx, userID, hash)
}

// DeleteIdentity removes the user row.
func (a *authService) DeleteIdentity(ctx context.Context, userID int64) error {
	return a.userRepository.DeleteUser(ctx, userID)
}

// SignOut invalidates every token issued to userID.
func (a *authService) SignOut(ctx context.Context, userID int64) error {
	_, err := a.userRepository.BumpSessionVersion(ctx, userID)
	return err
}

// SendPasswordReset mails a reset link to email. Unknown addresses are
// accepted silently so the endpoint does not reveal which e-mails exist.
func (a *authService) SendPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Info().Str("email", email).Msg("password reset requested for unknown e-mail")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, utils.AudienceReset, user.UserID, user.SessionVersion, a.resetTokenDuration, a.tokenSignKey)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return a.mailer.SendPasswordReset(ctx, user.Email, a.resetLink(token.String()))
}

// ResetPassword validates resetToken and stores newPassword. Changing the
// password bumps the session version, so the token cannot be used twice.
func (a *authService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := a.validator.Validate(ctx, models.PasswordChange{NewPassword: newPassword}); err != nil {
		return err
	}

	token, err := a.parseVersioned(ctx, resetToken, utils.AudienceReset)
	if err != nil {
		return err
	}

	return a.ChangePassword(ctx, token.UserID, newPassword)
}

func (a *authService) resetLink(token string) string {
	if a.resetURL == "" {
		return token
	}
	u, err := url.Parse(a.resetURL)
	if err != nil {
		return a.resetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (a *authService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
