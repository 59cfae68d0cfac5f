package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/garnizeh/chronosflow/internal/calendar"
	"github.com/garnizeh/chronosflow/internal/service"
	"github.com/garnizeh/chronosflow/internal/studyplan"
	"github.com/garnizeh/chronosflow/internal/timelog"
)

const (
	colorBrand     = "#1E759B"
	colorMuted     = "#94A3B8"
	colorHighlight = "#22C55E"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBrand))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted)).
			Width(16)

	valueStyle = lipgloss.NewStyle().Bold(true)

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBrand)).
			Padding(0, 2)
)

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
}

func card(title string, rows ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, append([]string{titleStyle.Render(title), ""}, rows...)...)
	return cardStyle.Render(body)
}

func hours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// RenderPlan draws the study plan card.
func RenderPlan(in studyplan.Input, p *studyplan.Plan) string {
	if p == nil {
		return card("Study plan", row("Total hours", hours(in.TotalHours)), row("Months", fmt.Sprint(in.Months)), "", "The selected range has no days.")
	}
	return card("Study plan",
		row("Total hours", hours(in.TotalHours)),
		row("Period", fmt.Sprintf("%s to %s", calendar.FormatDisplayDate(calendar.FormatDate(p.StartDate)), calendar.FormatDisplayDate(calendar.FormatDate(p.EndDate)))),
		row("Days", fmt.Sprint(p.TotalDays)),
		"",
		row("Daily target", highlightStyle.Render(p.DailyLabel())),
		row("Weekly target", p.WeeklyLabel()),
	)
}

// RenderSummary draws an employee's totals.
func RenderSummary(s service.EmployeeSummary, rate float64) string {
	name := s.Name
	if name == "" {
		name = "No employee selected"
	}
	rows := []string{
		row("This week", hours(s.Summary.Weekly)),
		row("This month", hours(s.Summary.Monthly)),
		row("All time", hours(s.Summary.AllTime)),
	}
	if rate > 0 {
		rows = append(rows, row("Earnings", highlightStyle.Render(fmt.Sprintf("%.2f", s.Earnings))))
	}
	if len(s.Recent) > 0 {
		rows = append(rows, "", titleStyle.Render("Recent logs"))
		for _, l := range timelog.Recent(s.Recent, 5) {
			rows = append(rows, row(calendar.FormatDisplayDate(l.Date), hours(l.Hours)))
		}
	}
	return card(name, rows...)
}

// RenderTeam draws the employer overview as a table.
func RenderTeam(team []timelog.EmployeeTotal) string {
	if len(team) == 0 {
		return card("Team", "No employees yet.")
	}
	nameWidth := len("Employee")
	for _, e := range team {
		if len(e.Name) > nameWidth {
			nameWidth = len(e.Name)
		}
	}
	nameCol := lipgloss.NewStyle().Width(nameWidth + 2)
	numCol := lipgloss.NewStyle().Width(10).Align(lipgloss.Right)

	muted := lipgloss.Color(colorMuted)

	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			nameCol.Foreground(muted).Render("Employee"),
			numCol.Foreground(muted).Render("Hours"),
			numCol.Foreground(muted).Render("Logs"),
		),
	}
	for _, e := range team {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, nameCol.Render(e.Name), numCol.Render(hours(e.TotalHours)), numCol.Render(fmt.Sprint(e.LogCount))))
	}
	return card("Team", strings.Join(lines, "\n"))
}

// RenderWeek describes the calendar position of a date.
func RenderWeek(date string, week int, monthKey string) string {
	return card("Calendar",
		row("Date", calendar.FormatDisplayDate(date)),
		row("ISO week", highlightStyle.Render(fmt.Sprint(week))),
		row("Month key", monthKey),
	)
}

// RenderAdvice frames the advice text.
func RenderAdvice(text string) string {
	return card("Productivity tip", lipgloss.NewStyle().Width(60).Render(text))
}
