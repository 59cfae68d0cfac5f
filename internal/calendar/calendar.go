// Package calendar holds the date helpers shared by the aggregator, the
// study planner and the dashboards. Calendar dates travel as YYYY-MM-DD
// strings and are parsed as UTC midnights.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// ISOWeekNumber returns the ISO-8601 week of t (Monday start, week of the nearest Thursday).
// The ISO year is dropped.
func ISOWeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// MonthYearKey returns "<month>-<year>" with a 1-based, unpadded month, e.g. "3-2024".
func MonthYearKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", int(t.Month()), t.Year())
}

// FormatDisplayDate rewrites YYYY-MM-DD as DD/MM/YYYY. The input is split on "-"
// without validation, so malformed input yields garbled output.
func FormatDisplayDate(s string) string {
	parts := strings.SplitN(s, "-", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the calendar date of now as UTC midnight.
func Today(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// AddMonths adds whole calendar months. Day-of-month overflow rolls into the
// following month (Jan 31 + 1 month = Mar 2 in a leap year).
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// DaysInRange counts the calendar days between start and start plus months,
// using the same month and day-of-month overflow as AddMonths. Counting civil
// days keeps the result exact for ranges far beyond time.Duration.
// The result is never negative.
func DaysInRange(start time.Time, months int) int {
	y, m, d := start.Date()

	total := int64(m) - 1 + int64(months)
	endYear := int64(y) + floorDiv(total, 12)
	endMonth := total - floorDiv(total, 12)*12 + 1

	from := civilDays(int64(y), int64(m), int64(d))
	to := civilDays(endYear, endMonth, 1) + int64(d) - 1

	diff := to - from
	if diff < 0 {
		diff = -diff
	}
	return int(diff)
}

// civilDays returns the number of days from 1970-01-01 to the proleptic
// Gregorian date y-m-d. Days past the end of the month roll forward.
func civilDays(y, m, d int64) int64 {
	if m <= 2 {
		y--
	}
	era := floorDiv(y, 400)
	yoe := y - era*400
	mp := (m + 9) % 12
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
