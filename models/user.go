package models

import "time"

// User represents an account entity of the authentication collaborator.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user. Every document
	// path is namespaced by it (see [UserRoot]).
	UserID int64 `json:"-"`

	// Email is the unique sign-in identifier.
	Email string `json:"email" validate:"required,mail"`

	// Password carries the plain-text password on its way in (sign-up,
	// sign-in). It is never persisted; see PasswordHash.
	Password string `json:"password,omitempty" validate:"required,min=6"`

	// PasswordHash is the bcrypt hash stored in the users table.
	PasswordHash string `json:"-"`

	// SessionVersion is bumped on sign-out, e-mail change and password
	// change. Tokens issued for an older version are rejected.
	SessionVersion int64 `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// Credential is the secret presented during a re-authentication challenge.
type Credential struct {
	Password string `json:"password"`
}
