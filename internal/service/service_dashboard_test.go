package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/grades"
	"github.com/MKhiriev/go-study-keeper/internal/realtime"
	"github.com/MKhiriev/go-study-keeper/models"
)

func loadedOf[T any](items ...T) realtime.Collection[T] {
	if items == nil {
		items = []T{}
	}
	return realtime.Collection[T]{Items: items, Loaded: true}
}

func TestBuildDashboard_NotLoaded(t *testing.T) {
	d := BuildDashboard(realtime.State{}, nil, 3.0)

	assert.False(t, d.Loaded)
	assert.Equal(t, "Usuario", d.Greeting)
	assert.Equal(t, grades.Placeholder, d.OverallAverage)
	assert.Equal(t, "", d.Badge)
	assert.NotNil(t, d.Subjects)
	assert.NotNil(t, d.ActiveReminders)
	assert.NotNil(t, d.Notes)
}

func TestBuildDashboard(t *testing.T) {
	due := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	state := realtime.State{
		UserID: 1,
		Subjects: loadedOf(
			models.Subject{ID: "a", Name: "Álgebra"},
			models.Subject{ID: "b", Name: "Biología"},
			models.Subject{ID: "c", Name: "Cálculo"},
		),
		Grades: map[string]realtime.Collection[models.GradeEntry]{
			"a": loadedOf(models.GradeEntry{Score: 4.0}, models.GradeEntry{Score: 4.5}),
			"b": loadedOf(models.GradeEntry{Score: 2.0}),
			"c": loadedOf[models.GradeEntry](),
		},
		Reminders:     loadedOf(models.Reminder{ID: "r", Due: &due}),
		Notes:         loadedOf(models.Note{ID: "n"}),
		Profile:       &models.Profile{DisplayName: "María José Pérez"},
		ProfileLoaded: true,
	}
	active := []models.Reminder{{ID: "r", Due: &due}}

	d := BuildDashboard(state, active, 3.0)

	assert.True(t, d.Loaded)
	assert.Equal(t, "María", d.Greeting)
	for _, s := range d.Subjects {
		assert.True(t, s.Loaded, s.Subject.ID)
	}
	require.Len(t, d.Subjects, 3)

	assert.Equal(t, "4.3", d.Subjects[0].Average)
	assert.Equal(t, grades.ColorExcellent, d.Subjects[0].BarColor)
	assert.Equal(t, models.Requirement{Outcome: "achievable", Score: "0.5"}, d.Subjects[0].Required)

	assert.Equal(t, "2.0", d.Subjects[1].Average)
	assert.Equal(t, models.Requirement{Outcome: "achievable", Score: "4.0"}, d.Subjects[1].Required)

	// предмет без оценок не влияет на общий средний балл
	assert.Equal(t, grades.Placeholder, d.Subjects[2].Average)
	assert.Equal(t, "insufficient_data", d.Subjects[2].Required.Outcome)
	assert.NotNil(t, d.Subjects[2].Grades)

	assert.Equal(t, "3.2", d.OverallAverage)
	assert.Equal(t, "1", d.Badge)
	assert.Equal(t, []string{"2025-06-01"}, d.MarkedDays)
	assert.Len(t, d.Notes, 1)
}

func TestBuildDashboard_GradesStillLoading(t *testing.T) {
	state := realtime.State{
		UserID: 1,
		Subjects: loadedOf(
			models.Subject{ID: "a", Name: "Álgebra"},
			models.Subject{ID: "b", Name: "Biología"},
		),
		Grades: map[string]realtime.Collection[models.GradeEntry]{
			"a": loadedOf(models.GradeEntry{Score: 4.0}),
		},
		Reminders:     loadedOf[models.Reminder](),
		Notes:         loadedOf[models.Note](),
		ProfileLoaded: true,
	}

	d := BuildDashboard(state, nil, 3.0)

	// оценки предмета "b" ещё не пришли: это не то же самое, что пустой список
	assert.False(t, d.Loaded)
	require.Len(t, d.Subjects, 2)
	assert.True(t, d.Subjects[0].Loaded)
	assert.False(t, d.Subjects[1].Loaded)
	assert.Equal(t, grades.Placeholder, d.Subjects[1].Average)
	assert.Equal(t, models.Requirement{}, d.Subjects[1].Required)
	assert.NotNil(t, d.Subjects[1].Grades)
	assert.Equal(t, "4.0", d.OverallAverage)

	data, err := json.Marshal(d.Subjects[1])
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"required"`)
	assert.Contains(t, string(data), `"loaded":false`)
}
