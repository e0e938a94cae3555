package validators

import (
	"context"
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MKhiriev/go-study-keeper/internal/dates"
	"github.com/MKhiriev/go-study-keeper/models"
)

// Struct field names accepted for field-level scoping.
const (
	FieldName        = "Name"
	FieldInstructor  = "Instructor"
	FieldTerm        = "Term"
	FieldScore       = "Score"
	FieldTitle       = "Title"
	FieldContent     = "Content"
	FieldEmail       = "Email"
	FieldPassword    = "Password"
	FieldPhoneNumber = "PhoneNumber"
	FieldDisplayName = "DisplayName"
)

const (
	tagNotBlank = "notblank"
	tagScore    = "score"
	tagMail     = "mail"
	tagPhone    = "phone"
	tagCategory = "category"
)

var (
	mailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
)

// StudyValidator validates subjects, grades, notes, reminders, profile and
// account changes.
type StudyValidator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewStudyValidator constructs a StudyValidator. now supplies the instant
// reminders are checked against; nil means time.Now.
func NewStudyValidator(now func() time.Time) Validator {
	if now == nil {
		now = time.Now
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(tagNotBlank, notBlank)
	_ = v.RegisterValidation(tagScore, validScore)
	_ = v.RegisterValidation(tagMail, matches(mailPattern))
	_ = v.RegisterValidation(tagPhone, matches(phonePattern))
	_ = v.RegisterValidation(tagCategory, validCategory)

	return &StudyValidator{validate: v, now: now}
}

// Validate dispatches on the dynamic type of obj. Value and pointer forms
// are accepted. fields restricts validation to the named struct fields.
func (v *StudyValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Subject, models.GradeEntry, models.Note, models.ProfileUpdate,
		models.EmailChange, models.PhoneChange, models.PasswordChange, models.User:
		return v.check(value, fields...)
	case *models.Subject:
		return v.check(*value, fields...)
	case *models.GradeEntry:
		return v.check(*value, fields...)
	case *models.Note:
		return v.check(*value, fields...)
	case *models.ProfileUpdate:
		return v.check(*value, fields...)
	case *models.User:
		return v.check(*value, fields...)

	case models.ReminderInput:
		return v.validateReminder(ctx, value, fields...)
	case *models.ReminderInput:
		return v.validateReminder(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *StudyValidator) check(obj any, fields ...string) error {
	var err error
	if len(fields) == 0 {
		err = v.validate.Struct(obj)
	} else {
		typ := reflect.TypeOf(obj)
		for _, f := range fields {
			if _, ok := typ.FieldByName(f); !ok {
				return ErrUnknownField
			}
		}
		err = v.validate.StructPartial(obj, fields...)
	}
	return toFieldError(err)
}

func (v *StudyValidator) validateReminder(_ context.Context, in models.ReminderInput, fields ...string) error {
	if err := v.check(in, fields...); err != nil {
		return err
	}
	if len(fields) > 0 {
		return nil
	}

	due, ok := dates.Normalize(dates.Combine(in.Date, in.Time))
	if !ok {
		return &FieldError{Field: "date", Message: "is not a valid date", Err: ErrInvalidDate}
	}
	if due.Before(v.now().Truncate(time.Minute)) {
		return &FieldError{Field: "date", Message: "must not be in the past", Err: ErrDateInPast}
	}
	return nil
}

func toFieldError(err error) error {
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}

	fe := errs[0]
	out := &FieldError{Field: fe.Field()}
	switch fe.Tag() {
	case "required", tagNotBlank:
		out.Message, out.Err = "is required", ErrRequired
	case "max":
		out.Message, out.Err = "must be at most "+fe.Param()+" characters long", ErrTooLong
	case "min":
		out.Message, out.Err = "must be at least "+fe.Param()+" characters long", ErrTooShort
	case tagScore:
		out.Message, out.Err = "must be a number between 0 and 5 with at most one decimal", ErrInvalidScore
	case tagMail:
		out.Message, out.Err = "must be a valid e-mail address", ErrInvalidEmail
	case tagPhone:
		out.Message, out.Err = "must be a valid phone number", ErrInvalidPhone
	case tagCategory:
		out.Message, out.Err = "must be a known category", ErrInvalidCategory
	case "datetime":
		out.Message, out.Err = "must match format "+fe.Param(), ErrInvalidDate
	default:
		out.Message, out.Err = "is invalid", err
	}
	return out
}

func notBlank(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func validScore(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	if math.IsNaN(f) || f < models.MinScore || f > models.MaxScore {
		return false
	}
	scaled := f * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func validCategory(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(models.ReminderCategory); ok {
		return c.Valid()
	}
	return false
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
