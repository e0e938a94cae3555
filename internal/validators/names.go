package validators

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/MKhiriev/go-study-keeper/models"
)

// NameKey returns the comparison key of a subject name: trimmed, inner
// whitespace collapsed and case-folded.
func NameKey(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// CheckDuplicateName returns a FieldError wrapping ErrDuplicateName when
// another subject than exceptID already carries name.
func CheckDuplicateName(name string, subjects []models.Subject, exceptID string) error {
	key := NameKey(name)
	for _, s := range subjects {
		if s.ID != exceptID && NameKey(s.Name) == key {
			return &FieldError{Field: "name", Message: "is already used by another subject", Err: ErrDuplicateName}
		}
	}
	return nil
}
