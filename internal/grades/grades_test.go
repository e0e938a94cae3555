package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-study-keeper/models"
)

func entries(scores ...float64) []models.GradeEntry {
	out := make([]models.GradeEntry, len(scores))
	for i, s := range scores {
		out[i] = models.GradeEntry{Score: s}
	}
	return out
}

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   string
	}{
		{"empty", nil, Placeholder},
		{"single", []float64{3.7}, "3.7"},
		{"rounds up", []float64{4.2, 4.5, 5.0}, "4.6"},
		{"exact half", []float64{3.0, 3.1}, "3.1"},
		{"below half", []float64{3.0, 3.0, 3.1}, "3.0"},
		{"zeros", []float64{0, 0}, "0.0"},
		{"perfect", []float64{5, 5, 5}, "5.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Average(entries(tt.scores...)).String())
		})
	}
}

func TestAverage_AfterRemoval(t *testing.T) {
	assert.Equal(t, "4.8", Average(entries(4.5, 5.0)).String())
}

func TestOverallAverage(t *testing.T) {
	got := OverallAverage([]Score{
		Average(entries(4.2, 4.5, 5.0)),
		Average(nil),
		Average(entries(3.0)),
	})
	assert.Equal(t, "3.8", got.String())

	assert.False(t, OverallAverage(nil).Valid())
	assert.False(t, OverallAverage([]Score{{}, {}}).Valid())
}

func TestRequiredNextScore(t *testing.T) {
	tests := []struct {
		name      string
		scores    []float64
		threshold float64
		outcome   Outcome
		score     string
	}{
		{"no grades", nil, 3.0, InsufficientData, Placeholder},
		{"already passing clamps to zero", []float64{4.2, 4.5, 5.0}, 3.0, Achievable, "0.0"},
		{"needs some", []float64{2.0, 2.5}, 3.0, Achievable, "4.5"},
		{"exactly five", []float64{2.0, 2.0}, 3.0, Achievable, "5.0"},
		{"not achievable", []float64{1.0, 1.0}, 3.0, NotAchievable, Placeholder},
		{"custom threshold", []float64{3.0}, 3.5, Achievable, "4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredNextScore(entries(tt.scores...), tt.threshold)
			assert.Equal(t, tt.outcome, got.Outcome)
			assert.Equal(t, tt.score, got.Score.String())
		})
	}
}

func TestRequirement_Wire(t *testing.T) {
	w := RequiredNextScore(entries(2.0, 2.5), 3.0).Wire()
	assert.Equal(t, models.Requirement{Outcome: "achievable", Score: "4.5"}, w)

	w = RequiredNextScore(nil, 3.0).Wire()
	assert.Equal(t, models.Requirement{Outcome: "insufficient_data"}, w)
}

func TestBandColor(t *testing.T) {
	assert.Equal(t, ColorNoData, BandColor(Score{}))
	assert.Equal(t, ColorFailing, BandColor(NewScore(0)))
	assert.Equal(t, ColorFailing, BandColor(NewScore(10)))
	assert.Equal(t, ColorLow, BandColor(NewScore(15)))
	assert.Equal(t, ColorBorderline, BandColor(NewScore(29)))
	assert.Equal(t, ColorPassing, BandColor(NewScore(30)))
	assert.Equal(t, ColorPassing, BandColor(NewScore(40)))
	assert.Equal(t, ColorExcellent, BandColor(NewScore(41)))
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int64(46), FromFloat(4.56).Tenths())
	assert.Equal(t, int64(45), FromFloat(4.54).Tenths())
	assert.True(t, FromFloat(0).Valid())
}
