package speelweek_test

import (
	"testing"
	"time"

	"cinebo/internal/speelweek"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestRange(t *testing.T) {
	tests := []struct {
		name         string
		day          time.Time
		startWeekday int
		wantStart    time.Time
		wantEnd      time.Time
	}{
		{
			name:         "tuesday start on the start day itself",
			day:          date(2026, time.August, 25), // a Tuesday
			startWeekday: 1,
			wantStart:    date(2026, time.August, 25),
			wantEnd:      date(2026, time.September, 1),
		},
		{
			name:         "monday belongs to the previous tuesday week",
			day:          date(2026, time.August, 24),
			startWeekday: 1,
			wantStart:    date(2026, time.August, 18),
			wantEnd:      date(2026, time.August, 25),
		},
		{
			name:         "sunday mid week",
			day:          date(2026, time.August, 30),
			startWeekday: 1,
			wantStart:    date(2026, time.August, 25),
			wantEnd:      date(2026, time.September, 1),
		},
		{
			name:         "wednesday start",
			day:          date(2026, time.August, 25),
			startWeekday: 2,
			wantStart:    date(2026, time.August, 19),
			wantEnd:      date(2026, time.August, 26),
		},
		{
			name:         "sunday start across month boundary",
			day:          date(2026, time.September, 1),
			startWeekday: 6,
			wantStart:    date(2026, time.August, 30),
			wantEnd:      date(2026, time.September, 6),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := speelweek.Range(tt.day, tt.startWeekday)
			if !start.Equal(tt.wantStart) {
				t.Fatalf("start: got %v want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Fatalf("end: got %v want %v", end, tt.wantEnd)
			}
		})
	}
}

func TestRangeDropsTimeOfDay(t *testing.T) {
	day := time.Date(2026, time.August, 25, 23, 15, 0, 0, time.UTC)
	start, _ := speelweek.Range(day, 1)
	if !start.Equal(date(2026, time.August, 25)) {
		t.Fatalf("expected time of day dropped, got %v", start)
	}
}

func TestInclusiveEnd(t *testing.T) {
	_, end := speelweek.Range(date(2026, time.August, 25), 1)
	if got := speelweek.InclusiveEnd(end); !got.Equal(date(2026, time.August, 31)) {
		t.Fatalf("inclusive end: got %v", got)
	}
}

func TestDutchLabels(t *testing.T) {
	wednesday := date(2026, time.March, 4)
	if got := speelweek.DayName(wednesday); got != "Woensdag" {
		t.Fatalf("DayName: got %q", got)
	}
	if got := speelweek.ShortDayName(wednesday); got != "Woe" {
		t.Fatalf("ShortDayName: got %q", got)
	}
	if got := speelweek.ShortMonthName(wednesday); got != "Mrt." {
		t.Fatalf("ShortMonthName: got %q", got)
	}
}
