package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the JWT claim set issued on sign-in.
//
// The subject claim carries the user ID; SessionVersion pins the token to the
// user's current session generation so that sign-out or a credential change
// invalidates every previously issued token.
type SessionClaims struct {
	jwt.RegisteredClaims

	SessionVersion int64 `json:"ver"`
}

// Token is the parsed or freshly signed session token.
type Token struct {
	// SignedString is the compact JWS representation of the token
	// (base64url-encoded header.payload.signature).
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`

	// SessionVersion mirrors [SessionClaims.SessionVersion].
	SessionVersion int64 `json:"-"`

	// ExpiresAt is the "exp" claim.
	ExpiresAt time.Time `json:"-"`
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
