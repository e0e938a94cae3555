package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/models"
)

func idx(i int) *int { return &i }

func TestSubject_Cyclic(t *testing.T) {
	for i := -SubjectSize; i < 3*SubjectSize; i++ {
		assert.Equal(t, Subject(i), Subject(i+SubjectSize), "index %d", i)
	}
	assert.Equal(t, models.Color{Fill: "#ff0000", Border: "#ff0000"}, Subject(0))
	assert.Equal(t, "#ff0080", Subject(-1).Fill)
	assert.Equal(t, "#ff8000", Subject(13).Fill)
}

func TestNote_Cyclic(t *testing.T) {
	assert.Equal(t, Note(0), Note(NoteSize))
	assert.Equal(t, models.Color{Fill: "#e6fbe8", Border: "#8be9a7"}, Note(2))
	assert.Len(t, Notes(), NoteSize)
}

func TestNextSubjectIndex(t *testing.T) {
	assert.Equal(t, 0, NextSubjectIndex(nil))

	// Three subjects created, the middle one deleted: the next index must not
	// collide with the surviving index 2.
	subjects := []models.Subject{
		{ID: "a", ColorIndex: idx(0)},
		{ID: "c", ColorIndex: idx(2)},
	}
	assert.Equal(t, 3, NextSubjectIndex(subjects))

	subjects = append(subjects, models.Subject{ID: "legacy"})
	assert.Equal(t, 3, NextSubjectIndex(subjects))
}

func TestAssign(t *testing.T) {
	var s models.Subject
	Assign(&s, 14)
	require.NotNil(t, s.ColorIndex)
	assert.Equal(t, 14, *s.ColorIndex)
	assert.Equal(t, Subject(2).Fill, s.Color)
	assert.True(t, s.HasColor())
}

func TestBackfill(t *testing.T) {
	colored := models.Subject{ID: "x", Name: "Zoology"}
	Assign(&colored, 4)

	got := Backfill([]models.Subject{
		{ID: "m", Name: "math"},
		colored,
		{ID: "a", Name: "Art"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, 5, *got[0].ColorIndex)
	assert.Equal(t, "m", got[1].ID)
	assert.Equal(t, 6, *got[1].ColorIndex)
	assert.Equal(t, Subject(6).Fill, got[1].Color)
}

func TestBackfill_NothingMissing(t *testing.T) {
	s := models.Subject{ID: "x"}
	Assign(&s, 0)
	assert.Empty(t, Backfill([]models.Subject{s}))
}
