package models

import "testing"

func TestStatsUpdateMerge(t *testing.T) {
	one, two := 1, 2
	today := "2026-03-18"

	login := StatsUpdate{LoginStreak: &one, LastLoginDate: &today}
	completion := StatsUpdate{CompletionStreak: &two, LastCompletionCheckDate: &today}

	merged := login.Merge(completion)
	if merged.LoginStreak == nil || *merged.LoginStreak != 1 {
		t.Errorf("login streak = %v", merged.LoginStreak)
	}
	if merged.CompletionStreak == nil || *merged.CompletionStreak != 2 {
		t.Errorf("completion streak = %v", merged.CompletionStreak)
	}

	override := StatsUpdate{LoginStreak: &two}
	if got := login.Merge(override); *got.LoginStreak != 2 {
		t.Errorf("override lost: %d", *got.LoginStreak)
	}
}

func TestStatsUpdateApply(t *testing.T) {
	three := 3
	today := "2026-03-18"
	update := StatsUpdate{
		LoginStreak:   &three,
		LastLoginDate: &today,
		TagReadCounts: map[string]int{"contentType_議論": 1},
	}

	stats := UserStats{LoginStreak: 2, CompletionStreak: 5}
	got := update.Apply(stats)
	if got.LoginStreak != 3 || got.LastLoginDate != today {
		t.Errorf("apply result = %+v", got)
	}
	if got.CompletionStreak != 5 {
		t.Error("untouched field changed")
	}
	if got.TagReadCounts["contentType_議論"] != 1 {
		t.Errorf("tag counts = %v", got.TagReadCounts)
	}
}

func TestStatsUpdateIsEmpty(t *testing.T) {
	if !(StatsUpdate{}).IsEmpty() {
		t.Error("zero update should be empty")
	}
	zero := 0
	if (StatsUpdate{CompletionStreak: &zero}).IsEmpty() {
		t.Error("a reset-to-zero write is not empty")
	}
}
