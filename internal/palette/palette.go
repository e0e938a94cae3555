// Package palette assigns stable colours to subjects and notes.
package palette

import (
	"sort"
	"strings"

	"github.com/MKhiriev/go-study-keeper/models"
)

// subjectColors is the 12-step RYB colour wheel.
var subjectColors = [...]string{
	"#ff0000", "#ff8000", "#ffff00", "#80ff00",
	"#00ff00", "#00ff80", "#00ffff", "#0080ff",
	"#0000ff", "#8000ff", "#ff00ff", "#ff0080",
}

var noteColors = [...]models.Color{
	{Fill: "#e3f0ff", Border: "#90c2fa"},
	{Fill: "#f3e8ff", Border: "#d1aaff"},
	{Fill: "#e6fbe8", Border: "#8be9a7"},
	{Fill: "#fffbe6", Border: "#ffe066"},
	{Fill: "#ffe6e6", Border: "#ffb3b3"},
}

// SubjectSize is the number of distinct subject colours.
const SubjectSize = len(subjectColors)

// NoteSize is the number of distinct note colours.
const NoteSize = len(noteColors)

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Subject returns the colour for creation index i. The palette repeats every
// [SubjectSize] indices; the border uses the same colour as the fill.
func Subject(i int) models.Color {
	c := subjectColors[wrap(i, SubjectSize)]
	return models.Color{Fill: c, Border: c}
}

// Note returns the note-card colour for index i, cyclic over [NoteSize].
func Note(i int) models.Color {
	return noteColors[wrap(i, NoteSize)]
}

// Notes returns every note colour in palette order.
func Notes() []models.Color {
	out := make([]models.Color, NoteSize)
	copy(out, noteColors[:])
	return out
}

// NextSubjectIndex returns the creation index for a new subject: one past the
// highest persisted index, or 0 when none is persisted. Indices stay unique
// across deletions, unlike the current list length.
func NextSubjectIndex(subjects []models.Subject) int {
	next := 0
	for _, s := range subjects {
		if s.ColorIndex != nil && *s.ColorIndex >= next {
			next = *s.ColorIndex + 1
		}
	}
	return next
}

// Assign stamps s with the colour of index i.
func Assign(s *models.Subject, i int) {
	c := Subject(i)
	s.Color, s.BorderColor = c.Fill, c.Border
	s.ColorIndex = &i
}

// Backfill assigns colours to subjects that lack one, in name order, using
// indices after the current maximum. It returns the subjects it modified;
// subjects that already have a colour are left untouched.
func Backfill(subjects []models.Subject) []models.Subject {
	var missing []models.Subject
	for _, s := range subjects {
		if !s.HasColor() {
			missing = append(missing, s)
		}
	}
	sort.SliceStable(missing, func(a, b int) bool {
		return strings.ToLower(missing[a].Name) < strings.ToLower(missing[b].Name)
	})
	next := NextSubjectIndex(subjects)
	for i := range missing {
		Assign(&missing[i], next)
		next++
	}
	return missing
}
