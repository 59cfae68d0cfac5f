package timelog_test

import (
	"testing"
	"time"

	"github.com/garnizeh/chronosflow/internal/timelog"
	"github.com/garnizeh/chronosflow/pkg/models"
)

var now = time.Date(2024, time.March, 13, 10, 30, 0, 0, time.UTC)

func TestSummarize(t *testing.T) {
	logs := []models.TimeLog{
		{ID: "a", Date: "2024-03-11", Hours: 8},
		{ID: "b", Date: "2024-03-04", Hours: 5},
		{ID: "c", Date: "2024-02-28", Hours: 3},
	}

	got := timelog.Summarize(logs, now)
	want := timelog.Summary{Weekly: 8, Monthly: 13, AllTime: 16}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := timelog.Summarize(nil, now); got != (timelog.Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

// The weekly total matches on week number alone, so the same ISO week of a
// previous year is counted.
func TestSummarize_WeeklyIgnoresYear(t *testing.T) {
	logs := []models.TimeLog{
		{ID: "a", Date: "2024-03-11", Hours: 8},
		{ID: "b", Date: "2023-03-15", Hours: 2},
	}

	got := timelog.Summarize(logs, now)
	if got.Weekly != 10 {
		t.Fatalf("weekly = %v, want 10 (2023 week 11 included)", got.Weekly)
	}
	if got.Monthly != 8 {
		t.Fatalf("monthly = %v, want 8 (month key includes year)", got.Monthly)
	}
}

func TestSummarize_BadDateCountsAllTimeOnly(t *testing.T) {
	logs := []models.TimeLog{
		{ID: "a", Date: "not-a-date", Hours: 4},
		{ID: "b", Date: "2024-03-12", Hours: 1},
	}

	got := timelog.Summarize(logs, now)
	want := timelog.Summary{Weekly: 1, Monthly: 1, AllTime: 5}
	if got != want {
		t.Fatalf("Summarize = %+v, want %+v", got, want)
	}
}

func TestEarnings(t *testing.T) {
	tests := []struct {
		hours, rate, want float64
	}{
		{40, 12.5, 500},
		{40, 0, 0},
		{40, -3, 0},
		{0, 20, 0},
	}
	for _, tt := range tests {
		if got := timelog.Earnings(tt.hours, tt.rate); got != tt.want {
			t.Errorf("Earnings(%v, %v) = %v, want %v", tt.hours, tt.rate, got, tt.want)
		}
	}
}

func TestHoursByDate(t *testing.T) {
	logs := []models.TimeLog{
		{Date: "2024-03-11", Hours: 8},
		{Date: "2024-04-01", Hours: 2},
		{Date: "2023-03-11", Hours: 3},
		{Date: "junk", Hours: 1},
	}

	got := timelog.HoursByDate(logs, 2024, time.March)
	if len(got) != 1 || got["2024-03-11"] != 8 {
		t.Fatalf("unexpected map: %#v", got)
	}
}

func TestRecent(t *testing.T) {
	logs := make([]models.TimeLog, 7)
	for i := range logs {
		logs[i] = models.TimeLog{ID: string(rune('a' + i))}
	}

	got := timelog.Recent(logs, 5)
	if len(got) != 5 || got[0].ID != "c" || got[4].ID != "g" {
		t.Fatalf("unexpected recent logs: %#v", got)
	}
	got[0].ID = "changed"
	if logs[2].ID != "c" {
		t.Fatalf("Recent must not alias its input")
	}

	if got := timelog.Recent(logs[:2], 5); len(got) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(got))
	}
	if got := timelog.Recent(logs, 0); len(got) != 0 {
		t.Fatalf("expected no logs, got %d", len(got))
	}
}

func TestSortedByDate(t *testing.T) {
	logs := []models.TimeLog{{Date: "2024-01-02"}, {Date: "2024-03-01"}, {Date: "2023-12-31"}}
	got := timelog.SortedByDate(logs)
	if got[0].Date != "2024-03-01" || got[2].Date != "2023-12-31" {
		t.Fatalf("unexpected order: %#v", got)
	}
	if logs[0].Date != "2024-01-02" {
		t.Fatalf("input reordered")
	}
}

func TestTeamTotals(t *testing.T) {
	emps := []models.Employee{
		{ID: "1", Name: "Ana", Logs: []models.TimeLog{{Hours: 4}, {Hours: 3.5}}},
		{ID: "2", Name: "Bruno"},
	}

	got := timelog.TeamTotals(emps)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].TotalHours != 7.5 || got[0].LogCount != 2 {
		t.Fatalf("unexpected first row: %+v", got[0])
	}
	if got[1].TotalHours != 0 || got[1].Name != "Bruno" {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
}
