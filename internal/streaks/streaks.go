package streaks

import (
	"strings"
	"time"

	"github.com/inkroom/backend/internal/models"
)

// DateString formats a local calendar date the way the stats sentinels
// store it.
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// EndOfYesterday returns 23:59:59.999 of the day before t, in t's
// location. Assignments due at or before this instant count toward the
// completion streak; an assignment due today does not yet.
func EndOfYesterday(t time.Time) time.Time {
	y, m, d := t.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return startOfToday.Add(-time.Millisecond)
}

// ProcessLogin computes the login-streak portion of a login event.
// Calling it twice with the same calendar day returns an empty update
// the second time.
func ProcessLogin(stats models.UserStats, today time.Time) models.StatsUpdate {
	todayStr := DateString(today)
	if stats.LastLoginDate == todayStr {
		return models.StatsUpdate{}
	}

	streak := 1
	if stats.LastLoginDate == DateString(today.AddDate(0, 0, -1)) {
		streak = stats.LoginStreak + 1
	}

	return models.StatsUpdate{
		LoginStreak:   &streak,
		LastLoginDate: &todayStr,
	}
}

// CheckCompletionStreak runs the once-per-day completion check.
// dueAssignmentIDs are the assignments whose deadline had passed by the
// end of yesterday; submitted is the set of assignment ids the student
// has any submission for (pass or fail is irrelevant here).
func CheckCompletionStreak(stats models.UserStats, today time.Time, dueAssignmentIDs []string, submitted map[string]bool) models.StatsUpdate {
	todayStr := DateString(today)
	if stats.LastCompletionCheckDate == todayStr {
		return models.StatsUpdate{}
	}

	// Nothing was due: the streak is neither extended nor broken, but
	// the sentinel still advances so the check stays once-per-day.
	if len(dueAssignmentIDs) == 0 {
		return models.StatsUpdate{LastCompletionCheckDate: &todayStr}
	}

	streak := 0
	allCompleted := true
	for _, id := range dueAssignmentIDs {
		if !submitted[id] {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		streak = stats.CompletionStreak + 1
	}

	return models.StatsUpdate{
		CompletionStreak:        &streak,
		LastCompletionCheckDate: &todayStr,
	}
}

// RecordQuizResult updates the submission-driven counters for a
// first-time submission. Retries must never reach this function.
func RecordQuizResult(stats models.UserStats, score int, tags models.AssignmentTags) models.StatsUpdate {
	count := stats.SubmissionCount + 1

	highScore := 0
	if score >= models.HighScore {
		highScore = stats.HighScoreStreak + 1
	}

	tagCounts := make(map[string]int, len(stats.TagReadCounts)+2)
	for k, v := range stats.TagReadCounts {
		tagCounts[k] = v
	}
	if tag := strings.TrimSpace(tags.ContentType); tag != "" {
		tagCounts[models.TagKey(models.TagCategoryContentType, tag)]++
	}
	if tag := strings.TrimSpace(tags.Difficulty); tag != "" {
		tagCounts[models.TagKey(models.TagCategoryDifficulty, tag)]++
	}

	return models.StatsUpdate{
		SubmissionCount: &count,
		HighScoreStreak: &highScore,
		TagReadCounts:   tagCounts,
	}
}
