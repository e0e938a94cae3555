package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/models"
)

type stubSource struct {
	calls int
	d     models.Dashboard
	err   error
}

func (s *stubSource) Dashboard(context.Context) (models.Dashboard, error) {
	s.calls++
	return s.d, s.err
}

func sampleDashboard() models.Dashboard {
	due := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	return models.Dashboard{
		Greeting:       "Lucía",
		Loaded:         true,
		OverallAverage: "4.2",
		Badge:          "1",
		MarkedDays:     []string{"2025-06-01"},
		Subjects: []models.SubjectSummary{
			{
				Subject:  models.Subject{Name: "Cálculo", Instructor: "Pérez", BorderColor: "#2563EB"},
				Loaded:   true,
				Average:  "2.5",
				BarColor: "#F59E0B",
				Required: models.Requirement{Outcome: "achievable", Score: "3.5"},
			},
			{
				Subject:  models.Subject{Name: "Historia"},
				Loaded:   true,
				Average:  "-",
				Required: models.Requirement{Outcome: "insufficient_data"},
			},
		},
		ActiveReminders: []models.Reminder{{Title: "Parcial", Category: models.CategoryExam, Due: &due}},
	}
}

func TestRenderDashboard(t *testing.T) {
	out := RenderDashboard(sampleDashboard())

	assert.Contains(t, out, "Hello, Lucía!")
	assert.Contains(t, out, "Overall average: 4.2")
	assert.Contains(t, out, "Cálculo")
	assert.Contains(t, out, "Next evaluation: 3.5 to pass")
	assert.Contains(t, out, "No grades yet")
	assert.Contains(t, out, "Parcial")
	assert.Contains(t, out, "01/06 09:00")
	assert.Contains(t, out, "Marked days: 2025-06-01")
}

func TestRenderDashboard_NotLoaded(t *testing.T) {
	assert.Contains(t, RenderDashboard(models.Dashboard{}), "Loading")
}

func TestRenderSubject_GradesLoading(t *testing.T) {
	out := renderSubject(models.SubjectSummary{Subject: models.Subject{Name: "Física"}, Average: "-"})

	assert.Contains(t, out, "Loading grades")
	assert.NotContains(t, out, "No grades yet")
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		average string
		filled  int
	}{
		{"5.0", barWidth},
		{"2.5", barWidth / 2},
		{"0.0", 0},
		{"-", 0},
		{"7.0", barWidth},
	}

	for _, tt := range tests {
		t.Run(tt.average, func(t *testing.T) {
			bar := []rune(progressBar(tt.average))
			require.Len(t, bar, barWidth)
			filled := 0
			for _, r := range bar {
				if r == '█' {
					filled++
				}
			}
			assert.Equal(t, tt.filled, filled)
		})
	}
}

func TestSummaryText(t *testing.T) {
	text := summaryText(sampleDashboard())

	assert.Contains(t, text, "Cálculo: 2.5 (next: 3.5)")
	assert.Contains(t, text, "Historia: -\n")
	assert.Contains(t, text, "Active reminders: 1")
}

func TestTUI_Print(t *testing.T) {
	src := &stubSource{d: sampleDashboard()}
	var buf bytes.Buffer

	require.NoError(t, New(src, logger.Nop()).Print(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Cálculo")

	src.err = errors.New("offline")
	assert.ErrorContains(t, New(src, logger.Nop()).Print(context.Background(), &buf), "offline")
}

func TestDashboardModel_FetchAndRefresh(t *testing.T) {
	src := &stubSource{d: sampleDashboard()}
	m := newDashboardModel(context.Background(), src, time.Minute)
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	m.now = func() time.Time { return fixed }

	msg := m.fetch()()
	next, cmd := m.Update(msg)
	m = next.(dashboardModel)

	assert.False(t, m.loading)
	assert.Equal(t, "Lucía", m.dashboard.Greeting)
	assert.Equal(t, fixed, m.fetchedAt)
	assert.NotNil(t, cmd, "следующее обновление должно быть запланировано")
	assert.Contains(t, m.View(), "Updated 10:00:00")

	// по таймеру модель снова загружает данные
	next, cmd = m.Update(refreshMsg{})
	m = next.(dashboardModel)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)
	_ = cmd()
	assert.Equal(t, 2, src.calls)

	// пока идёт загрузка, повторное обновление игнорируется
	_, cmd = m.Update(refreshMsg{})
	assert.Nil(t, cmd)
}

func TestDashboardModel_ErrorKeepsLastDashboard(t *testing.T) {
	m := newDashboardModel(context.Background(), &stubSource{}, 0)
	m.dashboard = sampleDashboard()

	next, cmd := m.Update(dashboardMsg{err: errors.New("server unavailable")})
	m = next.(dashboardModel)

	assert.Nil(t, cmd, "без интервала обновление не планируется")
	assert.Equal(t, "Lucía", m.dashboard.Greeting)
	assert.Contains(t, m.View(), "Error: server unavailable")
}

func TestDashboardModel_Keys(t *testing.T) {
	var copied string
	m := newDashboardModel(context.Background(), &stubSource{}, 0)
	m.loading = false
	m.dashboard = sampleDashboard()
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	m = next.(dashboardModel)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(dashboardModel)
	assert.Contains(t, copied, "Overall average: 4.2")
	assert.Contains(t, m.View(), "summary copied")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(dashboardModel)
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
