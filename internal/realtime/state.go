package realtime

import (
	"slices"

	"github.com/MKhiriev/go-study-keeper/models"
)

// Collection is a mirrored view. A zero Collection has not been loaded yet,
// which is different from a loaded collection with no items.
type Collection[T any] struct {
	Items  []T
	Loaded bool
}

func (c Collection[T]) clone() Collection[T] {
	return Collection[T]{Items: slices.Clone(c.Items), Loaded: c.Loaded}
}

func loaded[T any](items []T) Collection[T] {
	if items == nil {
		items = []T{}
	}
	return Collection[T]{Items: items, Loaded: true}
}

// State is an immutable copy of everything a Sync mirrors for one user.
type State struct {
	// UserID is 0 when nobody is signed in.
	UserID    int64
	Subjects  Collection[models.Subject]
	Grades    map[string]Collection[models.GradeEntry]
	Reminders Collection[models.Reminder]
	Notes     Collection[models.Note]
	Profile   *models.Profile
	// ProfileLoaded is true once the profile collection answered, even when
	// the user has no profile document.
	ProfileLoaded bool
}

// TopLevelLoaded reports whether every top-level collection has been
// loaded at least once.
func (s State) TopLevelLoaded() bool {
	return s.Subjects.Loaded && s.Reminders.Loaded && s.Notes.Loaded && s.ProfileLoaded
}

// Loaded reports whether the top-level collections and the grades of every
// current subject have been loaded at least once.
func (s State) Loaded() bool {
	if !s.TopLevelLoaded() {
		return false
	}
	for _, subject := range s.Subjects.Items {
		if !s.Grades[subject.ID].Loaded {
			return false
		}
	}
	return true
}

// GradesOf returns the grades view of one subject.
func (s State) GradesOf(subjectID string) Collection[models.GradeEntry] {
	return s.Grades[subjectID]
}

func (s State) clone() State {
	out := s
	out.Subjects = s.Subjects.clone()
	out.Reminders = s.Reminders.clone()
	out.Notes = s.Notes.clone()
	out.Grades = make(map[string]Collection[models.GradeEntry], len(s.Grades))
	for id, c := range s.Grades {
		out.Grades[id] = c.clone()
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

func emptyState(userID int64) State {
	return State{UserID: userID, Grades: make(map[string]Collection[models.GradeEntry])}
}

// subjectIDs returns the ids of the grade children that should be open.
func subjectIDs(subjects []models.Subject) map[string]struct{} {
	ids := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		ids[s.ID] = struct{}{}
	}
	return ids
}
