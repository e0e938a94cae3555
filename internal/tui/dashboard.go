package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-study-keeper/models"
)

const hotKeys = "r: refresh · c: copy summary · q: quit"

type dashboardMsg struct {
	dashboard models.Dashboard
	err       error
}

type refreshMsg struct{}

type copiedMsg struct {
	err error
}

// dashboardModel shows the dashboard and re-fetches it every interval.
type dashboardModel struct {
	ctx      context.Context
	source   DashboardSource
	interval time.Duration
	now      func() time.Time
	copy     func(string) error

	spinner   spinner.Model
	loading   bool
	dashboard models.Dashboard
	fetchedAt time.Time
	err       error
	notice    string
}

func newDashboardModel(ctx context.Context, source DashboardSource, interval time.Duration) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return dashboardModel{
		ctx:      ctx,
		source:   source,
		interval: interval,
		now:      time.Now,
		copy:     clipboard.WriteAll,
		spinner:  s,
		loading:  true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m dashboardModel) fetch() tea.Cmd {
	return func() tea.Msg {
		d, err := m.source.Dashboard(m.ctx)
		return dashboardMsg{dashboard: d, err: err}
	}
}

func (m dashboardModel) scheduleRefresh() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.fetch()
		case key.Matches(msg, keys.copy):
			text := summaryText(m.dashboard)
			return m, func() tea.Msg { return copiedMsg{err: m.copy(text)} }
		}

	case dashboardMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.dashboard = msg.dashboard
			m.fetchedAt = m.now()
		}
		return m, m.scheduleRefresh()

	case refreshMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.fetch()

	case copiedMsg:
		if msg.err != nil {
			m.notice = "copy failed: " + msg.err.Error()
		} else {
			m.notice = "summary copied"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) View() string {
	body := RenderDashboard(m.dashboard)

	status := ""
	switch {
	case m.loading:
		status = m.spinner.View() + " Updating…"
	case m.err != nil:
		status = errorStyle.Render("Error: " + m.err.Error())
	case !m.fetchedAt.IsZero():
		status = subtleStyle.Render("Updated " + m.fetchedAt.Format("15:04:05"))
	}
	if m.notice != "" {
		status += "  " + m.notice
	}

	return renderPage("STUDY DASHBOARD", body+"\n\n"+status, hotKeys)
}
