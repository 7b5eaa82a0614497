package achievements

import (
	"fmt"
	"time"
)

// WeekID returns the ISO-8601 week identifier for t, e.g. "2024-W09".
// ISO weeks start on Monday and belong to the year of their Thursday.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfWeek returns Monday 00:00 of t's week, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday → 0, Sunday → 6
	return day.AddDate(0, 0, -offset)
}
