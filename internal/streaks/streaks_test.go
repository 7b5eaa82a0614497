package streaks

import (
	"testing"
	"time"

	"github.com/inkroom/backend/internal/models"
)

var today = time.Date(2026, 3, 18, 9, 30, 0, 0, time.Local)

func TestProcessLogin(t *testing.T) {
	tests := []struct {
		name          string
		lastLoginDate string
		loginStreak   int
		wantStreak    int
		wantEmpty     bool
	}{
		{"first login ever", "", 0, 1, false},
		{"consecutive day", "2026-03-17", 4, 5, false},
		{"gap resets to one", "2026-03-10", 9, 1, false},
		{"same day is idempotent", "2026-03-18", 4, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := models.UserStats{LoginStreak: tt.loginStreak, LastLoginDate: tt.lastLoginDate}
			update := ProcessLogin(stats, today)

			if tt.wantEmpty {
				if !update.IsEmpty() {
					t.Fatalf("update = %+v, want empty", update)
				}
				return
			}
			if update.LoginStreak == nil || *update.LoginStreak != tt.wantStreak {
				t.Errorf("streak = %v, want %d", update.LoginStreak, tt.wantStreak)
			}
			if update.LastLoginDate == nil || *update.LastLoginDate != "2026-03-18" {
				t.Errorf("sentinel = %v, want 2026-03-18", update.LastLoginDate)
			}
		})
	}
}

func TestProcessLoginAcrossMonthBoundary(t *testing.T) {
	marchFirst := time.Date(2026, 3, 1, 8, 0, 0, 0, time.Local)
	stats := models.UserStats{LoginStreak: 2, LastLoginDate: "2026-02-28"}

	update := ProcessLogin(stats, marchFirst)
	if update.LoginStreak == nil || *update.LoginStreak != 3 {
		t.Errorf("streak = %v, want 3", update.LoginStreak)
	}
}

func TestCheckCompletionStreak(t *testing.T) {
	tests := []struct {
		name       string
		lastCheck  string
		streak     int
		due        []string
		submitted  map[string]bool
		wantStreak *int
		wantEmpty  bool
	}{
		{
			name:      "same day skips entirely",
			lastCheck: "2026-03-18",
			due:       []string{"a1"},
			wantEmpty: true,
		},
		{
			name:       "nothing due advances only the sentinel",
			streak:     3,
			due:        nil,
			wantStreak: nil,
		},
		{
			name:       "all due submitted extends",
			streak:     3,
			due:        []string{"a1", "a2"},
			submitted:  map[string]bool{"a1": true, "a2": true},
			wantStreak: intPtr(4),
		},
		{
			name:       "one missing resets to zero",
			streak:     3,
			due:        []string{"a1", "a2"},
			submitted:  map[string]bool{"a1": true},
			wantStreak: intPtr(0),
		},
		{
			name:       "failing submission still counts as completed",
			streak:     0,
			due:        []string{"a1"},
			submitted:  map[string]bool{"a1": true},
			wantStreak: intPtr(1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := models.UserStats{
				CompletionStreak:        tt.streak,
				LastCompletionCheckDate: tt.lastCheck,
			}
			update := CheckCompletionStreak(stats, today, tt.due, tt.submitted)

			if tt.wantEmpty {
				if !update.IsEmpty() {
					t.Fatalf("update = %+v, want empty", update)
				}
				return
			}
			if update.LastCompletionCheckDate == nil || *update.LastCompletionCheckDate != "2026-03-18" {
				t.Errorf("sentinel = %v, want 2026-03-18", update.LastCompletionCheckDate)
			}
			if tt.wantStreak == nil {
				if update.CompletionStreak != nil {
					t.Errorf("streak = %d, want untouched", *update.CompletionStreak)
				}
				return
			}
			if update.CompletionStreak == nil || *update.CompletionStreak != *tt.wantStreak {
				t.Errorf("streak = %v, want %d", update.CompletionStreak, *tt.wantStreak)
			}
		})
	}
}

func TestEndOfYesterday(t *testing.T) {
	got := EndOfYesterday(today)
	want := time.Date(2026, 3, 17, 23, 59, 59, 999000000, time.Local)
	if !got.Equal(want) {
		t.Errorf("EndOfYesterday = %v, want %v", got, want)
	}
}

func TestRecordQuizResult(t *testing.T) {
	stats := models.UserStats{
		SubmissionCount: 7,
		HighScoreStreak: 2,
		TagReadCounts:   map[string]int{"contentType_記敘": 3},
	}
	tags := models.AssignmentTags{ContentType: "記敘", Difficulty: "進階"}

	update := RecordQuizResult(stats, 95, tags)
	if update.SubmissionCount == nil || *update.SubmissionCount != 8 {
		t.Errorf("submission count = %v, want 8", update.SubmissionCount)
	}
	if update.HighScoreStreak == nil || *update.HighScoreStreak != 3 {
		t.Errorf("high score streak = %v, want 3", update.HighScoreStreak)
	}
	if update.TagReadCounts["contentType_記敘"] != 4 {
		t.Errorf("content tag count = %d, want 4", update.TagReadCounts["contentType_記敘"])
	}
	if update.TagReadCounts["difficulty_進階"] != 1 {
		t.Errorf("difficulty tag count = %d, want 1", update.TagReadCounts["difficulty_進階"])
	}
	// Source map must stay untouched.
	if stats.TagReadCounts["contentType_記敘"] != 3 {
		t.Error("input stats mutated")
	}
}

func TestRecordQuizResultBreaksHighScoreStreak(t *testing.T) {
	stats := models.UserStats{HighScoreStreak: 5}
	update := RecordQuizResult(stats, 89, models.AssignmentTags{})
	if update.HighScoreStreak == nil || *update.HighScoreStreak != 0 {
		t.Errorf("high score streak = %v, want 0", update.HighScoreStreak)
	}
}

func TestRecordQuizResultBoundary(t *testing.T) {
	update := RecordQuizResult(models.UserStats{HighScoreStreak: 1}, models.HighScore, models.AssignmentTags{})
	if update.HighScoreStreak == nil || *update.HighScoreStreak != 2 {
		t.Errorf("exactly %d should extend the streak, got %v", models.HighScore, update.HighScoreStreak)
	}
}

func TestRecordQuizResultSkipsBlankTags(t *testing.T) {
	update := RecordQuizResult(models.UserStats{}, 50, models.AssignmentTags{ContentType: "  ", Difficulty: ""})
	if len(update.TagReadCounts) != 0 {
		t.Errorf("tag counts = %v, want none recorded", update.TagReadCounts)
	}
}

func intPtr(v int) *int { return &v }
