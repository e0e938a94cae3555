// Package tui renders the study dashboard in a terminal, once or as a
// self-refreshing screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/models"
)

// DashboardSource fetches the dashboard of the signed-in user.
type DashboardSource interface {
	Dashboard(ctx context.Context) (models.Dashboard, error)
}

type TUI struct {
	source DashboardSource
	logger *logger.Logger
}

func New(source DashboardSource, logger *logger.Logger) *TUI {
	return &TUI{source: source, logger: logger}
}

// Print fetches the dashboard once and writes it to w.
func (t *TUI) Print(ctx context.Context, w io.Writer) error {
	d, err := t.source.Dashboard(ctx)
	if err != nil {
		return fmt.Errorf("fetch dashboard: %w", err)
	}
	_, err = fmt.Fprintln(w, RenderDashboard(d))
	return err
}

// Watch shows the dashboard full-screen, re-fetching it every interval, until
// the user quits or ctx is cancelled.
func (t *TUI) Watch(ctx context.Context, interval time.Duration) error {
	model := newDashboardModel(ctx, t.source, interval)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		t.logger.Debug().Msg("dashboard closed by context")
		return nil
	}
	return err
}
