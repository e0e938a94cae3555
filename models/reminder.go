package models

import "time"

// ReminderCategory classifies a reminder.
type ReminderCategory string

const (
	CategoryExam           ReminderCategory = "Exam"
	CategoryHomework       ReminderCategory = "Homework"
	CategoryPresentation   ReminderCategory = "Presentation"
	CategoryAdministrative ReminderCategory = "Administrative"
)

// ReminderCategories lists every accepted category in display order.
var ReminderCategories = []ReminderCategory{
	CategoryExam,
	CategoryHomework,
	CategoryPresentation,
	CategoryAdministrative,
}

// Valid reports whether c is one of [ReminderCategories].
func (c ReminderCategory) Valid() bool {
	for _, known := range ReminderCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Reminder is a user-created task or event with a due instant.
type Reminder struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    ReminderCategory `json:"category"`
	Completed   bool             `json:"completed"`

	// Due is nil when the stored date could not be normalized.
	Due *time.Time `json:"due,omitempty"`
}
