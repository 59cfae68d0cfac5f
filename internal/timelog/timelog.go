// Package timelog aggregates an employee's logged hours into weekly, monthly
// and all-time totals. Totals are recomputed from the logs on every call.
package timelog

import (
	"sort"
	"time"

	"github.com/garnizeh/chronosflow/internal/calendar"
	"github.com/garnizeh/chronosflow/pkg/models"
)

// Summary holds the three totals shown on a dashboard.
type Summary struct {
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
	AllTime float64 `json:"all_time"`
}

// Summarize totals logs relative to now.
//
// Weekly compares only the ISO week number, not the year: a log from the same
// week number of another year is counted. Logs with unparseable dates only
// contribute to AllTime.
func Summarize(logs []models.TimeLog, now time.Time) Summary {
	week := calendar.ISOWeekNumber(now)
	month := calendar.MonthYearKey(now)

	var s Summary
	for _, l := range logs {
		s.AllTime += l.Hours

		d, err := calendar.ParseDate(l.Date)
		if err != nil {
			continue
		}
		if calendar.ISOWeekNumber(d) == week {
			s.Weekly += l.Hours
		}
		if calendar.MonthYearKey(d) == month {
			s.Monthly += l.Hours
		}
	}

	return s
}

// Total sums all hours.
func Total(logs []models.TimeLog) float64 {
	var total float64
	for _, l := range logs {
		total += l.Hours
	}
	return total
}

// Earnings estimates pay for hours at hourlyRate. Non-positive rates earn nothing.
func Earnings(hours, hourlyRate float64) float64 {
	if hourlyRate <= 0 {
		return 0
	}
	return hours * hourlyRate
}

// HoursByDate indexes the logs falling in the given month by date.
func HoursByDate(logs []models.TimeLog, year int, month time.Month) map[string]float64 {
	out := make(map[string]float64)
	for _, l := range logs {
		d, err := calendar.ParseDate(l.Date)
		if err != nil {
			continue
		}
		if d.Year() == year && d.Month() == month {
			out[l.Date] = l.Hours
		}
	}
	return out
}

// Recent returns the last n logs in insertion order.
func Recent(logs []models.TimeLog, n int) []models.TimeLog {
	if n <= 0 {
		return []models.TimeLog{}
	}
	if len(logs) <= n {
		out := make([]models.TimeLog, len(logs))
		copy(out, logs)
		return out
	}
	out := make([]models.TimeLog, n)
	copy(out, logs[len(logs)-n:])
	return out
}

// SortedByDate returns a copy of logs ordered by date, newest first.
func SortedByDate(logs []models.TimeLog) []models.TimeLog {
	out := make([]models.TimeLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// EmployeeTotal is one line of the team overview.
type EmployeeTotal struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	TotalHours float64 `json:"total_hours"`
	LogCount   int     `json:"log_count"`
}

// TeamTotals reports all-time hours per employee in roster order.
func TeamTotals(employees []models.Employee) []EmployeeTotal {
	out := make([]EmployeeTotal, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeTotal{
			ID:         e.ID,
			Name:       e.Name,
			TotalHours: Total(e.Logs),
			LogCount:   len(e.Logs),
		})
	}
	return out
}
