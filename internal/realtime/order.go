package realtime

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MKhiriev/go-study-keeper/models"
)

// newCollator returns the collator used for subject names. A Collator is not
// safe for concurrent use; each Sync owns one and uses it under its lock.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.Loose)
}

func sortSubjects(c *collate.Collator, subjects []models.Subject) {
	sort.SliceStable(subjects, func(i, j int) bool {
		if cmp := c.CompareString(subjects[i].Name, subjects[j].Name); cmp != 0 {
			return cmp < 0
		}
		return subjects[i].ID < subjects[j].ID
	})
}

// sortGrades orders entries by creation instant. Entries without one keep
// their relative order after every dated entry.
func sortGrades(entries []models.GradeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].CreatedAt, entries[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// sortReminders orders reminders by due instant, undated ones last.
func sortReminders(reminders []models.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		a, b := reminders[i].Due, reminders[j].Due
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}
