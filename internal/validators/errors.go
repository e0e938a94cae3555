package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrRequired        = errors.New("field is required")
	ErrTooLong         = errors.New("field is too long")
	ErrTooShort        = errors.New("field is too short")
	ErrInvalidScore    = errors.New("score must be between 0 and 5 with at most one decimal")
	ErrInvalidEmail    = errors.New("invalid e-mail address")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidCategory = errors.New("invalid reminder category")
	ErrInvalidDate     = errors.New("invalid date or time")
	ErrDateInPast      = errors.New("date and time must not be in the past")
	ErrDuplicateName   = errors.New("a subject with this name already exists")
	ErrInvalidColor    = errors.New("invalid palette colour")
)

// FieldError reports the first field that failed validation. Field is the
// JSON name of the field.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
