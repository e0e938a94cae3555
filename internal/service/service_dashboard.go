package service

import (
	"github.com/MKhiriev/go-study-keeper/internal/grades"
	"github.com/MKhiriev/go-study-keeper/internal/notify"
	"github.com/MKhiriev/go-study-keeper/internal/realtime"
	"github.com/MKhiriev/go-study-keeper/models"
)

// defaultFirstName greets users whose profile has not loaded yet.
const defaultFirstName = "Usuario"

// BuildDashboard derives the dashboard view from a mirrored state and the
// reminders currently active for it.
func BuildDashboard(state realtime.State, active []models.Reminder, threshold float64) models.Dashboard {
	d := models.Dashboard{
		Greeting:        defaultFirstName,
		Loaded:          state.Loaded(),
		Subjects:        make([]models.SubjectSummary, 0, len(state.Subjects.Items)),
		ActiveReminders: active,
		Badge:           notify.Badge(len(active)),
		MarkedDays:      notify.MarkedDays(state.Reminders.Items),
		Notes:           state.Notes.Items,
	}
	if state.Profile != nil {
		d.Greeting = state.Profile.FirstName()
	}
	if d.ActiveReminders == nil {
		d.ActiveReminders = []models.Reminder{}
	}
	if d.Notes == nil {
		d.Notes = []models.Note{}
	}

	averages := make([]grades.Score, 0, len(state.Subjects.Items))
	for _, subject := range state.Subjects.Items {
		entries := state.GradesOf(subject.ID)
		if !entries.Loaded {
			d.Subjects = append(d.Subjects, loadingSubject(subject))
			continue
		}
		summary := SummarizeSubject(subject, entries.Items, threshold)
		averages = append(averages, grades.Average(summary.Grades))
		d.Subjects = append(d.Subjects, summary)
	}
	d.OverallAverage = grades.OverallAverage(averages).String()

	return d
}

// loadingSubject is the card of a subject whose grades have not arrived
// yet. It stays out of the overall average.
func loadingSubject(subject models.Subject) models.SubjectSummary {
	return models.SubjectSummary{
		Subject:  subject,
		Grades:   []models.GradeEntry{},
		Average:  grades.Placeholder,
		BarColor: grades.ColorNoData,
	}
}

// SummarizeSubject builds the card of a subject whose grades are loaded.
func SummarizeSubject(subject models.Subject, entries []models.GradeEntry, threshold float64) models.SubjectSummary {
	if entries == nil {
		entries = []models.GradeEntry{}
	}
	avg := grades.Average(entries)
	return models.SubjectSummary{
		Subject:  subject,
		Loaded:   true,
		Grades:   entries,
		Average:  avg.String(),
		BarColor: grades.BandColor(avg),
		Required: grades.RequiredNextScore(entries, threshold).Wire(),
	}
}
