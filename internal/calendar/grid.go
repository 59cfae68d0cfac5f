package calendar

import (
	"fmt"
	"time"
)

// Day is one cell of a month grid. Blank cells pad the first week and have Day == 0.
type Day struct {
	Day       int      `json:"day"`
	Date      string   `json:"date"`
	Hours     *float64 `json:"hours"`
	DayOfWeek int      `json:"day_of_week"`
}

// MonthGrid lays out a month as Sunday-first weeks. Leading blank cells precede
// the 1st; logged hours are looked up by date.
func MonthGrid(year int, month time.Month, hoursByDate map[string]float64) ([]Day, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	lead := int(first.Weekday())

	days := make([]Day, 0, lead+daysInMonth)
	for i := 0; i < lead; i++ {
		days = append(days, Day{DayOfWeek: i})
	}

	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		cell := Day{Day: d, Date: FormatDate(date), DayOfWeek: int(date.Weekday())}
		if h, ok := hoursByDate[cell.Date]; ok && h != 0 {
			v := h
			cell.Hours = &v
		}
		days = append(days, cell)
	}

	return days, nil
}
