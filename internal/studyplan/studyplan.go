// Package studyplan spreads a course's total hours evenly over a number of months.
package studyplan

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/chronosflow/internal/calendar"
)

const (
	DefaultTotalHours = 100.0
	DefaultMonths     = 2
	// MaxMonths bounds the planning range at a thousand years.
	MaxMonths = 12000
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// Input is a sanitized calculator request.
type Input struct {
	TotalHours float64
	Months     int
	Start      time.Time
}

// Plan is the daily study target for an Input.
type Plan struct {
	TotalDays    int       `json:"total_days"`
	HoursPerDay  float64   `json:"hours_per_day"`
	WholeHours   float64   `json:"whole_hours"`
	Minutes      int       `json:"minutes"`
	WeeklyTarget float64   `json:"weekly_target"`
	StartDate    time.Time `json:"-"`
	EndDate      time.Time `json:"-"`
}

// ParseInput reads form values the lenient way a text field would: a leading
// number is taken and trailing junk ignored. Missing, non-numeric or negative
// hours become 100; months below 1 become 2 and months above MaxMonths are
// clamped to it; a missing or malformed start is today.
func ParseInput(totalHours, months, start string, today time.Time) Input {
	in := Input{TotalHours: DefaultTotalHours, Months: DefaultMonths, Start: calendar.Today(today)}

	if m := leadingFloat.FindString(strings.TrimSpace(totalHours)); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil && v >= 0 && !math.IsInf(v, 0) {
			in.TotalHours = v
		}
	}

	if m := leadingInt.FindString(strings.TrimSpace(months)); m != "" {
		v, err := strconv.Atoi(m)
		switch {
		case errors.Is(err, strconv.ErrRange) && m[0] != '-':
			in.Months = MaxMonths
		case err == nil && v > MaxMonths:
			in.Months = MaxMonths
		case err == nil && v >= 1:
			in.Months = v
		}
	}

	if d, err := calendar.ParseDate(strings.TrimSpace(start)); err == nil {
		in.Start = d
	}

	return in
}

// Calculate returns the plan for in, or false when the range holds no days.
//
// Minutes are rounded independently of WholeHours, so a remainder that rounds
// up yields Minutes == 60 rather than carrying into the hour.
func Calculate(in Input) (*Plan, bool) {
	days := calendar.DaysInRange(in.Start, in.Months)
	if days <= 0 {
		return nil, false
	}

	raw := in.TotalHours / float64(days)
	whole := math.Floor(raw)

	return &Plan{
		TotalDays:    days,
		HoursPerDay:  raw,
		WholeHours:   whole,
		Minutes:      int(math.Round((raw - whole) * 60)),
		WeeklyTarget: raw * 7,
		StartDate:    in.Start,
		EndDate:      calendar.AddMonths(in.Start, in.Months),
	}, true
}

// DailyLabel renders the daily target as "1h 40m".
func (p *Plan) DailyLabel() string {
	return fmt.Sprintf("%.0fh %dm", p.WholeHours, p.Minutes)
}

// WeeklyLabel renders the weekly target with one decimal, e.g. "11.7h".
func (p *Plan) WeeklyLabel() string {
	return strconv.FormatFloat(p.WeeklyTarget, 'f', 1, 64) + "h"
}
