package realtime

import "errors"

var (
	// ErrRegistryClosed is returned by Subscribe after Close.
	ErrRegistryClosed = errors.New("registry is closed")
	// ErrInvalidSubscription is returned for a non-positive user ID or a path
	// not owned by that user.
	ErrInvalidSubscription = errors.New("invalid subscription")
	// ErrSignedOut is returned by Ready when no user is set.
	ErrSignedOut = errors.New("no user is signed in")
)
