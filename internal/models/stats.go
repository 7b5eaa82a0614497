package models

// Tag key prefixes used in UserStats.TagReadCounts. A key is the
// category joined to the tag value, e.g. "contentType_記敘" or
// "difficulty_進階".
const (
	TagCategoryContentType = "contentType"
	TagCategoryDifficulty  = "difficulty"
)

// UserStats holds the per-student counters the streak tracker mutates.
// Dates are local calendar dates formatted "2006-01-02"; empty string
// means never set. The week id is "YYYY-Www" (ISO week numbering).
type UserStats struct {
	LoginStreak             int            `json:"login_streak"`
	HighScoreStreak         int            `json:"high_score_streak"`
	CompletionStreak        int            `json:"completion_streak"`
	SubmissionCount         int            `json:"submission_count"`
	TagReadCounts           map[string]int `json:"tag_read_counts"`
	LastLoginDate           string         `json:"last_login_date,omitempty"`
	LastCompletionCheckDate string         `json:"last_completion_check_date,omitempty"`
	LastProgressCheckWeekID string         `json:"last_progress_check_week_id,omitempty"`
}

// TagKey builds a TagReadCounts key from a category and tag value.
func TagKey(category, tag string) string {
	return category + "_" + tag
}

// StatsUpdate is a partial UserStats write. Nil fields are left
// untouched. A counter and its check-date sentinel always travel in
// the same update so the store can persist them in one statement.
type StatsUpdate struct {
	LoginStreak             *int
	HighScoreStreak         *int
	CompletionStreak        *int
	SubmissionCount         *int
	TagReadCounts           map[string]int
	LastLoginDate           *string
	LastCompletionCheckDate *string
	LastProgressCheckWeekID *string
}

// IsEmpty reports whether the update would change nothing.
func (u StatsUpdate) IsEmpty() bool {
	return u.LoginStreak == nil && u.HighScoreStreak == nil &&
		u.CompletionStreak == nil && u.SubmissionCount == nil &&
		u.TagReadCounts == nil && u.LastLoginDate == nil &&
		u.LastCompletionCheckDate == nil && u.LastProgressCheckWeekID == nil
}

// Merge overlays other onto u, other winning on conflicts.
func (u StatsUpdate) Merge(other StatsUpdate) StatsUpdate {
	out := u
	if other.LoginStreak != nil {
		out.LoginStreak = other.LoginStreak
	}
	if other.HighScoreStreak != nil {
		out.HighScoreStreak = other.HighScoreStreak
	}
	if other.CompletionStreak != nil {
		out.CompletionStreak = other.CompletionStreak
	}
	if other.SubmissionCount != nil {
		out.SubmissionCount = other.SubmissionCount
	}
	if other.TagReadCounts != nil {
		out.TagReadCounts = other.TagReadCounts
	}
	if other.LastLoginDate != nil {
		out.LastLoginDate = other.LastLoginDate
	}
	if other.LastCompletionCheckDate != nil {
		out.LastCompletionCheckDate = other.LastCompletionCheckDate
	}
	if other.LastProgressCheckWeekID != nil {
		out.LastProgressCheckWeekID = other.LastProgressCheckWeekID
	}
	return out
}

// Apply folds the update into a stats value in memory, mirroring what
// the store write does to the persisted row.
func (u StatsUpdate) Apply(stats UserStats) UserStats {
	out := stats
	if u.LoginStreak != nil {
		out.LoginStreak = *u.LoginStreak
	}
	if u.HighScoreStreak != nil {
		out.HighScoreStreak = *u.HighScoreStreak
	}
	if u.CompletionStreak != nil {
		out.CompletionStreak = *u.CompletionStreak
	}
	if u.SubmissionCount != nil {
		out.SubmissionCount = *u.SubmissionCount
	}
	if u.TagReadCounts != nil {
		out.TagReadCounts = u.TagReadCounts
	}
	if u.LastLoginDate != nil {
		out.LastLoginDate = *u.LastLoginDate
	}
	if u.LastCompletionCheckDate != nil {
		out.LastCompletionCheckDate = *u.LastCompletionCheckDate
	}
	if u.LastProgressCheckWeekID != nil {
		out.LastProgressCheckWeekID = *u.LastProgressCheckWeekID
	}
	return out
}
