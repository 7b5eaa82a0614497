package achievements

import (
	"testing"
	"time"
)

func TestWeekID(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-03-18", "2026-W12"},
		{"2026-01-01", "2026-W01"},
		// Jan 1-3 2027 belong to ISO week 53 of 2026.
		{"2027-01-01", "2026-W53"},
		{"2026-12-28", "2026-W53"},
	}
	for _, tt := range tests {
		d, err := time.ParseInLocation("2006-01-02", tt.date, time.Local)
		if err != nil {
			t.Fatal(err)
		}
		if got := WeekID(d); got != tt.want {
			t.Errorf("WeekID(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-03-18", "2026-03-16"}, // Wednesday back to Monday
		{"2026-03-16", "2026-03-16"}, // Monday stays
		{"2026-03-22", "2026-03-16"}, // Sunday belongs to the preceding Monday
	}
	for _, tt := range tests {
		d, err := time.ParseInLocation("2006-01-02", tt.date, time.Local)
		if err != nil {
			t.Fatal(err)
		}
		got := StartOfWeek(d.Add(13 * time.Hour))
		if got.Format("2006-01-02") != tt.want {
			t.Errorf("StartOfWeek(%s) = %s, want %s", tt.date, got.Format("2006-01-02"), tt.want)
		}
		if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
			t.Errorf("StartOfWeek(%s) not at midnight: %v", tt.date, got)
		}
	}
}
