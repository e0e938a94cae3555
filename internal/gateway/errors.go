package gateway

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
)

// Kind classifies why a mutation failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuthChallenge
	KindConflict
	KindPermission
	KindTransientStore
	KindStaleSession
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthChallenge:
		return "auth_challenge"
	case KindConflict:
		return "conflict"
	case KindPermission:
		return "permission"
	case KindTransientStore:
		return "transient_store"
	case KindStaleSession:
		return "stale_session"
	default:
		return "unknown"
	}
}

// Errors the authentication collaborator reports to the gateway.
var (
	// ErrInvalidCredential means the re-authentication challenge failed.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrStaleSession means the user must sign in again.
	ErrStaleSession = errors.New("session is no longer valid")
)

var (
	// ErrBusy is returned when a mutation of the same kind is still running.
	ErrBusy = errors.New("a change of this kind is already in progress")
	// ErrNotFound is returned when the entity to change no longer exists.
	ErrNotFound = errors.New("the item no longer exists")
)

// Error is the failure of one mutation.
type Error struct {
	Kind Kind
	// Field is the JSON name of the offending field for validation failures.
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return e.Kind.String() + ": " + e.Field + ": " + e.Msg
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classify turns any error raised while running a mutation into an *Error.
func classify(err error) *Error {
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}

	var fe *validators.FieldError
	if errors.As(err, &fe) {
		return &Error{Kind: KindValidation, Field: fe.Field, Msg: fe.Message, Err: err}
	}

	switch {
	case errors.Is(err, ErrInvalidCredential):
		return &Error{Kind: KindAuthChallenge, Msg: "the password is not correct", Err: err}
	case errors.Is(err, ErrStaleSession), errors.Is(err, store.ErrNoUserWasFound):
		return &Error{Kind: KindStaleSession, Msg: "please sign in again", Err: err}
	case errors.Is(err, store.ErrLoginAlreadyExists):
		return &Error{Kind: KindConflict, Field: "email", Msg: "this e-mail is already in use", Err: err}
	case errors.Is(err, store.ErrDocumentExists):
		return &Error{Kind: KindConflict, Msg: "the item already exists", Err: err}
	case errors.Is(err, store.ErrDocumentNotFound), errors.Is(err, ErrNotFound):
		return &Error{Kind: KindConflict, Msg: ErrNotFound.Error(), Err: err}
	case errors.Is(err, ErrBusy):
		return &Error{Kind: KindConflict, Msg: ErrBusy.Error(), Err: err}
	case errors.Is(err, store.ErrPermissionDenied):
		return &Error{Kind: KindPermission, Msg: "you are not allowed to change this item", Err: err}
	case errors.Is(err, store.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTransientStore, Msg: "could not save, try again", Err: err}
	default:
		return &Error{Kind: KindUnknown, Msg: "something went wrong", Err: err}
	}
}
