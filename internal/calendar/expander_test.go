package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cashflow-forecaster/internal/models"
)

func d(s string) models.Date {
	date, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return date
}

func dates(ss ...string) []models.Date {
	out := make([]models.Date, len(ss))
	for i, s := range ss {
		out[i] = d(s)
	}
	return out
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		freq   models.Frequency
		start  string
		end    string
		want   []models.Date
	}{
		{
			name: "one-time inside window", anchor: "2024-03-10", freq: models.OneTime,
			start: "2024-03-01", end: "2024-03-31", want: dates("2024-03-10"),
		},
		{
			name: "one-time before window", anchor: "2024-02-10", freq: models.OneTime,
			start: "2024-03-01", end: "2024-03-31", want: nil,
		},
		{
			name: "one-time on window end", anchor: "2024-03-31", freq: models.OneTime,
			start: "2024-03-01", end: "2024-03-31", want: dates("2024-03-31"),
		},
		{
			name: "biweekly income", anchor: "2024-01-05", freq: models.Biweekly,
			start: "2024-01-01", end: "2024-02-28",
			want: dates("2024-01-05", "2024-01-19", "2024-02-02", "2024-02-16"),
		},
		{
			name: "biweekly anchor far in the past keeps phase", anchor: "2023-01-06", freq: models.Biweekly,
			start: "2024-01-01", end: "2024-01-31",
			want: dates("2024-01-05", "2024-01-19"),
		},
		{
			name: "weekly anchor centuries in the past stays in window", anchor: "1700-01-04", freq: models.Weekly,
			start: "2024-01-01", end: "2024-01-31",
			want: dates("2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"),
		},
		{
			name: "weekly anchored on window start", anchor: "2024-01-01", freq: models.Weekly,
			start: "2024-01-01", end: "2024-01-22",
			want: dates("2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"),
		},
		{
			name: "monthly clamps in leap february", anchor: "2024-01-31", freq: models.Monthly,
			start: "2024-01-01", end: "2024-04-30",
			want: dates("2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30"),
		},
		{
			name: "monthly clamps in common february", anchor: "2023-01-31", freq: models.Monthly,
			start: "2023-02-01", end: "2023-03-31",
			want: dates("2023-02-28", "2023-03-31"),
		},
		{
			name: "monthly anchor before window", anchor: "2022-05-15", freq: models.Monthly,
			start: "2024-01-01", end: "2024-02-29",
			want: dates("2024-01-15", "2024-02-15"),
		},
		{
			name: "quarterly", anchor: "2024-01-31", freq: models.Quarterly,
			start: "2024-02-01", end: "2024-12-31",
			want: dates("2024-04-30", "2024-07-31", "2024-10-31"),
		},
		{
			name: "annually from leap day", anchor: "2024-02-29", freq: models.Annually,
			start: "2024-01-01", end: "2028-12-31",
			want: dates("2024-02-29", "2025-02-28", "2026-02-28", "2027-02-28", "2028-02-29"),
		},
		{
			name: "semi-monthly", anchor: "2024-01-01", freq: models.SemiMonthly,
			start: "2024-01-01", end: "2024-02-29",
			want: dates("2024-01-01", "2024-01-16", "2024-02-01", "2024-02-16"),
		},
		{
			name: "semi-monthly second date clamps to month end", anchor: "2024-01-20", freq: models.SemiMonthly,
			start: "2024-02-01", end: "2024-03-31",
			want: dates("2024-02-20", "2024-02-29", "2024-03-20", "2024-03-31"),
		},
		{
			name: "semi-monthly collapses duplicate clamped dates", anchor: "2024-01-31", freq: models.SemiMonthly,
			start: "2024-02-01", end: "2024-02-29",
			want: dates("2024-02-29"),
		},
		{
			name: "semi-monthly never before anchor", anchor: "2024-01-10", freq: models.SemiMonthly,
			start: "2024-01-01", end: "2024-01-31",
			want: dates("2024-01-10", "2024-01-25"),
		},
		{
			name: "empty window", anchor: "2024-01-10", freq: models.Weekly,
			start: "2024-02-01", end: "2024-01-01", want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(d(tt.anchor), tt.freq, d(tt.start), d(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_AscendingWithinWindow(t *testing.T) {
	start, end := d("2024-01-01"), d("2025-12-31")
	for _, freq := range models.Frequencies() {
		got := Expand(d("2023-11-30"), freq, start, end)
		for i, date := range got {
			require.False(t, date.Before(start), "%s: %s before window", freq, date)
			require.False(t, date.After(end), "%s: %s after window", freq, date)
			if i > 0 {
				require.True(t, got[i-1].Before(date), "%s: not strictly ascending at %d", freq, i)
			}
		}
	}
}

func TestExpand_UnknownFrequencyPanics(t *testing.T) {
	assert.Panics(t, func() {
		Expand(d("2024-01-01"), models.Frequency(42), d("2024-01-01"), d("2024-02-01"))
	})
}

func TestTodayIn_UsesTimezone(t *testing.T) {
	// 02:30 UTC on Jan 2 is still Jan 1 in New York
	now := time.Date(2024, 1, 2, 2, 30, 0, 0, time.UTC)

	assert.Equal(t, d("2024-01-01"), TodayIn(now, "America/New_York"))
	assert.Equal(t, d("2024-01-02"), TodayIn(now, ""))
	assert.Equal(t, d("2024-01-02"), TodayIn(now, "Not/AZone"))
}
