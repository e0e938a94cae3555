// Package documents converts between stored JSON document bodies and the
// domain models. Dates pass through [dates.Raw] so that both stored
// representations are accepted on read.
package documents

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/dates"
	"github.com/MKhiriev/go-study-keeper/models"
)

type subjectRecord struct {
	Name        string `json:"name"`
	Instructor  string `json:"instructor"`
	Term        string `json:"term"`
	Color       string `json:"color,omitempty"`
	BorderColor string `json:"borderColor,omitempty"`
	ColorIndex  *int   `json:"colorIndex,omitempty"`
}

type gradeRecord struct {
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	CreatedAt dates.Raw `json:"createdAt"`
}

type noteRecord struct {
	Title       string `json:"title"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
	Color       string `json:"color"`
	BorderColor string `json:"borderColor"`
	CreatedAt   string `json:"createdAt"`
}

type reminderRecord struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	Date        dates.Raw `json:"date"`
}

func decode(doc models.Document, dst any) error {
	if err := json.Unmarshal(doc.Data, dst); err != nil {
		return fmt.Errorf("%w: %s/%s: %w", ErrMalformed, doc.Path, doc.ID, err)
	}
	return nil
}

// Subject decodes a subject document.
func Subject(doc models.Document) (models.Subject, error) {
	var r subjectRecord
	if err := decode(doc, &r); err != nil {
		return models.Subject{}, err
	}
	return models.Subject{
		ID:          doc.ID,
		Name:        r.Name,
		Instructor:  r.Instructor,
		Term:        r.Term,
		Color:       r.Color,
		BorderColor: r.BorderColor,
		ColorIndex:  r.ColorIndex,
	}, nil
}

// EncodeSubject encodes s without its id.
func EncodeSubject(s models.Subject) (json.RawMessage, error) {
	return json.Marshal(subjectRecord{
		Name:        s.Name,
		Instructor:  s.Instructor,
		Term:        s.Term,
		Color:       s.Color,
		BorderColor: s.BorderColor,
		ColorIndex:  s.ColorIndex,
	})
}

// Grade decodes a grade document. A creation instant that cannot be
// normalized is left nil.
func Grade(doc models.Document) (models.GradeEntry, error) {
	var r gradeRecord
	if err := decode(doc, &r); err != nil {
		return models.GradeEntry{}, err
	}
	return models.GradeEntry{
		ID:        doc.ID,
		Name:      r.Name,
		Score:     r.Score,
		CreatedAt: r.CreatedAt.Ptr(),
	}, nil
}

// EncodeGrade encodes g, storing CreatedAt as a native timestamp.
func EncodeGrade(g models.GradeEntry) (json.RawMessage, error) {
	r := gradeRecord{Name: g.Name, Score: g.Score}
	if g.CreatedAt != nil {
		r.CreatedAt = dates.Raw{V: dates.FromTime(*g.CreatedAt)}
	}
	return json.Marshal(r)
}

// Note decodes a note document.
func Note(doc models.Document) (models.Note, error) {
	var r noteRecord
	if err := decode(doc, &r); err != nil {
		return models.Note{}, err
	}
	return models.Note{
		ID:           doc.ID,
		Title:        r.Title,
		SubjectLabel: r.Subject,
		Content:      r.Content,
		Color:        r.Color,
		BorderColor:  r.BorderColor,
		CreatedAt:    r.CreatedAt,
	}, nil
}

// EncodeNote encodes n without its id.
func EncodeNote(n models.Note) (json.RawMessage, error) {
	return json.Marshal(noteRecord{
		Title:       n.Title,
		Subject:     n.SubjectLabel,
		Content:     n.Content,
		Color:       n.Color,
		BorderColor: n.BorderColor,
		CreatedAt:   n.CreatedAt,
	})
}

// Reminder decodes a reminder document. The due date may be stored either
// as a timestamp or as a string.
func Reminder(doc models.Document) (models.Reminder, error) {
	var r reminderRecord
	if err := decode(doc, &r); err != nil {
		return models.Reminder{}, err
	}
	return models.Reminder{
		ID:          doc.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    models.ReminderCategory(r.Category),
		Completed:   r.Completed,
		Due:         r.Date.Ptr(),
	}, nil
}

// EncodeReminder encodes rem, storing Due as an RFC 3339 string.
func EncodeReminder(rem models.Reminder) (json.RawMessage, error) {
	r := reminderRecord{
		Title:       rem.Title,
		Description: rem.Description,
		Category:    string(rem.Category),
		Completed:   rem.Completed,
	}
	if rem.Due != nil {
		r.Date = dates.Raw{V: dates.ISOString(rem.Due.Format(time.RFC3339))}
	}
	return json.Marshal(r)
}

// Profile decodes the profile document.
func Profile(doc models.Document) (models.Profile, error) {
	var p models.Profile
	if err := decode(doc, &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// EncodeProfile encodes p.
func EncodeProfile(p models.Profile) (json.RawMessage, error) {
	return json.Marshal(p)
}
