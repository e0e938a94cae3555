package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MKhiriev/go-study-keeper/models"
)

const (
	uiDivider = "──────────────────────────────────────────────────────"
	barWidth  = 20
	maxScore  = 5.0
)

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		b.WriteString(data)
		b.WriteString("\n")
	} else {
		b.WriteString("-\n")
	}

	b.WriteString("\n")
	b.WriteString(uiDivider)
	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(hotKeys))
	}

	return appStyle.Render(b.String())
}

// RenderDashboard formats d for a terminal.
func RenderDashboard(d models.Dashboard) string {
	if !d.Loaded {
		return subtleStyle.Render("Loading…")
	}

	var b strings.Builder

	header := "Hello"
	if d.Greeting != "" {
		header += ", " + d.Greeting
	}
	b.WriteString(titleStyle.Render(header + "!"))
	if d.Badge != "" {
		b.WriteString("  ")
		b.WriteString(badgeStyle.Render(d.Badge))
	}
	b.WriteString("\n")
	b.WriteString("Overall average: " + d.OverallAverage + "\n\n")

	if len(d.Subjects) == 0 {
		b.WriteString(subtleStyle.Render("No subjects yet."))
		b.WriteString("\n")
	}
	for _, s := range d.Subjects {
		b.WriteString(renderSubject(s))
		b.WriteString("\n")
	}

	if len(d.ActiveReminders) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Due now"))
		b.WriteString("\n")
		for _, r := range d.ActiveReminders {
			b.WriteString(renderReminder(r))
			b.WriteString("\n")
		}
	}

	if len(d.MarkedDays) > 0 {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("Marked days: " + strings.Join(d.MarkedDays, ", ")))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderSubject(s models.SubjectSummary) string {
	name := s.Subject.Name
	if s.Subject.Instructor != "" {
		name += subtleStyle.Render(" · " + s.Subject.Instructor)
	}

	status := subtleStyle.Render("Loading grades…")
	if s.Loaded {
		status = requirementText(s.Required)
	}
	body := fmt.Sprintf("%s\n%s %s\n%s",
		name,
		barStyle(s.BarColor).Render(progressBar(s.Average)),
		s.Average,
		status,
	)

	style := cardStyle
	if s.Subject.BorderColor != "" {
		style = style.BorderForeground(lipgloss.Color(s.Subject.BorderColor))
	}
	return style.Render(body)
}

// progressBar draws average on a 0..5 scale. A non-numeric average draws an
// empty bar.
func progressBar(average string) string {
	v, err := strconv.ParseFloat(average, 64)
	if err != nil || v < 0 {
		v = 0
	}
	filled := int(v / maxScore * barWidth)
	filled = min(filled, barWidth)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func requirementText(r models.Requirement) string {
	switch r.Outcome {
	case "achievable":
		return "Next evaluation: " + r.Score + " to pass"
	case "not_achievable":
		return errorStyle.Render("Passing is no longer reachable")
	default:
		return subtleStyle.Render("No grades yet")
	}
}

func renderReminder(r models.Reminder) string {
	line := "• " + r.Title
	if r.Category != "" {
		line += subtleStyle.Render(" [" + string(r.Category) + "]")
	}
	if r.Due != nil {
		line += " " + r.Due.Format("02/01 15:04")
	}
	return line
}

// summaryText is the plain-text form copied to the clipboard.
func summaryText(d models.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall average: %s\n", d.OverallAverage)
	for _, s := range d.Subjects {
		fmt.Fprintf(&b, "%s: %s", s.Subject.Name, s.Average)
		if s.Required.Outcome == "achievable" {
			fmt.Fprintf(&b, " (next: %s)", s.Required.Score)
		}
		b.WriteString("\n")
	}
	if d.Badge != "" {
		fmt.Fprintf(&b, "Active reminders: %s\n", d.Badge)
	}
	return b.String()
}
