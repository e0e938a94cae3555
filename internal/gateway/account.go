package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

// MaxAvatarSize is the largest accepted avatar upload in bytes.
const MaxAvatarSize = 5 << 20

var avatarTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

var (
	errAvatarType = errors.New("avatar must be a PNG or JPEG image")
	errAvatarSize = errors.New("avatar is too large")
)

// loadProfile returns the stored profile and whether it exists.
func (g *Gateway) loadProfile(ctx context.Context) (models.Profile, bool, error) {
	doc, err := g.store.Get(ctx, models.ProfilePath(g.userID), models.ProfileDocID)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return models.Profile{}, false, nil
	}
	if err != nil {
		return models.Profile{}, false, err
	}
	p, err := documents.Profile(doc)
	return p, true, err
}

func (g *Gateway) saveProfile(ctx context.Context, p models.Profile) error {
	data, err := documents.EncodeProfile(p)
	if err != nil {
		return err
	}
	_, err = g.store.Put(ctx, models.ProfilePath(g.userID), models.ProfileDocID, data)
	return err
}

// UpdateProfile changes the display name and notification preferences.
// Editing an existing profile asks for confirmation; the first save does
// not.
func (g *Gateway) UpdateProfile(ctx context.Context, in models.ProfileUpdate) (Result[models.Profile], error) {
	var profile models.Profile
	var exists bool

	status, err := g.run(ctx, MutationProfile, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, in); err != nil {
				return err
			}
			var err error
			profile, exists, err = g.loadProfile(ctx)
			return err
		},
		confirm:     "Save the changes to your profile?",
		confirmWhen: func() bool { return exists },
		commit: func(ctx context.Context) error {
			profile.DisplayName = strings.TrimSpace(in.DisplayName)
			profile.NotificationPreferences = in.NotificationPreferences
			return g.saveProfile(ctx, profile)
		},
		success: "Profile saved",
	})
	return finish(status, err, &profile)
}

// ChangeEmail moves the sign-in e-mail. It requires re-authentication and
// signs the user out.
func (g *Gateway) ChangeEmail(ctx context.Context, in models.EmailChange) (Result[string], error) {
	email := strings.TrimSpace(in.Email)

	status, err := g.run(ctx, MutationEmail, plan{
		validate: func(ctx context.Context) error {
			return g.validate(ctx, models.EmailChange{Email: email})
		},
		confirm: fmt.Sprintf("Change your e-mail to %s? You will be signed out.", email),
		reauth:  true,
		commit: func(ctx context.Context) error {
			if err := g.auth.ChangeEmail(ctx, g.userID, email); err != nil {
				return err
			}
			g.mirrorProfile(ctx, func(p *models.Profile) { p.Email = email })
			g.endSession(ctx)
			return nil
		},
		success: "E-mail updated, please sign in again",
	})
	res, err := finish(status, err, &email)
	res.SignedOut = err == nil && status == StatusCommitted
	return res, err
}

// ChangePhone stores a new phone number after re-authentication.
func (g *Gateway) ChangePhone(ctx context.Context, in models.PhoneChange) (Result[string], error) {
	phone := strings.TrimSpace(in.PhoneNumber)
	var profile models.Profile

	status, err := g.run(ctx, MutationPhone, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, models.PhoneChange{PhoneNumber: phone}); err != nil {
				return err
			}
			var err error
			profile, _, err = g.loadProfile(ctx)
			return err
		},
		confirm: fmt.Sprintf("Change your phone number to %s?", phone),
		reauth:  true,
		commit: func(ctx context.Context) error {
			profile.PhoneNumber = phone
			return g.saveProfile(ctx, profile)
		},
		success: "Phone number updated",
	})
	return finish(status, err, &phone)
}

// ChangePassword sets a new password after re-authentication and signs the
// user out.
func (g *Gateway) ChangePassword(ctx context.Context, in models.PasswordChange) (Result[struct{}], error) {
	status, err := g.run(ctx, MutationPassword, plan{
		validate: func(ctx context.Context) error {
			return g.validate(ctx, in)
		},
		confirm: "Change your password? You will be signed out.",
		reauth:  true,
		commit: func(ctx context.Context) error {
			if err := g.auth.ChangePassword(ctx, g.userID, in.NewPassword); err != nil {
				return err
			}
			g.endSession(ctx)
			return nil
		},
		success: "Password updated, please sign in again",
	})
	res, err := finish(status, err, &struct{}{})
	res.SignedOut = err == nil && status == StatusCommitted
	return res, err
}

// SetTwoFactor turns two-factor sign-in on or off after re-authentication.
func (g *Gateway) SetTwoFactor(ctx context.Context, enabled bool) (Result[bool], error) {
	var profile models.Profile
	message := "Turn off two-factor authentication?"
	if enabled {
		message = "Turn on two-factor authentication?"
	}

	status, err := g.run(ctx, MutationTwoFactor, plan{
		validate: func(ctx context.Context) error {
			var err error
			profile, _, err = g.loadProfile(ctx)
			return err
		},
		confirm: message,
		reauth:  true,
		commit: func(ctx context.Context) error {
			profile.TwoFactorEnabled = enabled
			return g.saveProfile(ctx, profile)
		},
		success: "Two-factor authentication updated",
	})
	return finish(status, err, &enabled)
}

// UploadAvatar stores a PNG or JPEG image and links it from the profile.
func (g *Gateway) UploadAvatar(ctx context.Context, contentType string, image []byte) (Result[string], error) {
	var url string
	var profile models.Profile

	status, err := g.run(ctx, MutationAvatar, plan{
		validate: func(ctx context.Context) error {
			if _, ok := avatarTypes[contentType]; !ok {
				return &validators.FieldError{Field: "avatar", Message: errAvatarType.Error(), Err: errAvatarType}
			}
			if len(image) == 0 || len(image) > MaxAvatarSize {
				return &validators.FieldError{Field: "avatar", Message: errAvatarSize.Error(), Err: errAvatarSize}
			}
			var err error
			profile, _, err = g.loadProfile(ctx)
			return err
		},
		commit: func(ctx context.Context) error {
			key := fmt.Sprintf("avatars/%d%s", g.userID, avatarTypes[contentType])
			var err error
			url, err = g.files.Upload(ctx, key, contentType, bytes.NewReader(image), int64(len(image)))
			if err != nil {
				return err
			}
			profile.AvatarURL = url
			return g.saveProfile(ctx, profile)
		},
		success: "Profile picture updated",
	})
	return finish(status, err, &url)
}

// DeleteAccount removes every document of the user, then the sign-in
// identity. It asks for confirmation, the password, and a second
// confirmation of the irreversible step.
func (g *Gateway) DeleteAccount(ctx context.Context) (Result[struct{}], error) {
	status, err := g.run(ctx, MutationAccount, plan{
		confirm:      "Delete your account?",
		reauth:       true,
		finalConfirm: "This permanently deletes your subjects, grades, notes, reminders and profile. Continue?",
		commit: func(ctx context.Context) error {
			if err := g.store.DeleteTree(ctx, models.UserRoot(g.userID)); err != nil {
				return err
			}
			return g.auth.DeleteIdentity(ctx, g.userID)
		},
		success: "Your account has been deleted",
	})
	res, err := finish(status, err, &struct{}{})
	res.SignedOut = err == nil && status == StatusCommitted
	return res, err
}

// SendPasswordReset e-mails a reset link. It needs no signed-in user.
func (g *Gateway) SendPasswordReset(ctx context.Context, email string) (Result[string], error) {
	email = strings.TrimSpace(email)

	status, err := g.run(ctx, MutationPasswordReset, plan{
		anonymous: true,
		validate: func(ctx context.Context) error {
			return g.validate(ctx, models.EmailChange{Email: email})
		},
		commit: func(ctx context.Context) error {
			return g.auth.SendPasswordReset(ctx, email)
		},
		success: "If the address is registered, a reset link is on its way",
	})
	return finish(status, err, &email)
}

// mirrorProfile applies fn to the stored profile. The profile copy is
// informational, so failures are logged and not returned.
func (g *Gateway) mirrorProfile(ctx context.Context, fn func(*models.Profile)) {
	profile, _, err := g.loadProfile(ctx)
	if err == nil {
		fn(&profile)
		err = g.saveProfile(ctx, profile)
	}
	if err != nil {
		g.log.Err(err).Str("func", "*Gateway.mirrorProfile").Int64("user_id", g.userID).Msg("error updating profile copy")
	}
}

// endSession signs the user out after a committed credential change. The
// change itself already invalidated older tokens, so a failed sign-out is
// only logged and the mutation still reports the session as ended.
func (g *Gateway) endSession(ctx context.Context) {
	if err := g.auth.SignOut(ctx, g.userID); err != nil {
		g.log.Warn().Err(err).Str("func", "*Gateway.endSession").Int64("user_id", g.userID).Msg("sign-out after credential change failed")
	}
}
