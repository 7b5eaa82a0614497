package achievements

import (
	"strings"

	"github.com/inkroom/backend/internal/models"
)

// conditionKind is the closed set of condition types the engine
// understands. Catalog entries with any other type string parse to
// kindUnknown, which never evaluates true.
type conditionKind int

const (
	kindUnknown conditionKind = iota
	kindSubmissionCount
	kindLoginStreak
	kindHighScoreStreak
	kindCompletionStreak
	kindAverageScore
	kindGenreExplorer
	kindReadTag
	kindWeeklyProgress
)

// condition is a parsed catalog condition. value is the numeric operand
// for the kinds that take one; tagKey is only set for kindReadTag and
// holds the TagReadCounts key ("contentType_記敘", "difficulty_進階").
type condition struct {
	kind   conditionKind
	value  int
	tagKey string
}

const readTagPrefix = "read_tag_"

// parseCondition maps a stored condition onto the closed kind set.
// A kind that requires an operand but has none is a data anomaly and
// degrades to kindUnknown (fail-closed), never an error.
func parseCondition(c models.AchievementCondition) condition {
	kind := kindUnknown
	tagKey := ""

	switch c.Type {
	case "submission_count":
		kind = kindSubmissionCount
	case "login_streak":
		kind = kindLoginStreak
	case "high_score_streak":
		kind = kindHighScoreStreak
	case "completion_streak":
		kind = kindCompletionStreak
	case "average_score":
		kind = kindAverageScore
	case "genre_explorer":
		kind = kindGenreExplorer
	case "weekly_progress":
		return condition{kind: kindWeeklyProgress}
	default:
		if key, ok := strings.CutPrefix(c.Type, readTagPrefix); ok && key != "" {
			kind = kindReadTag
			tagKey = key
		}
	}

	if kind == kindUnknown {
		return condition{kind: kindUnknown}
	}
	if c.Value == nil {
		return condition{kind: kindUnknown}
	}
	return condition{kind: kind, value: *c.Value, tagKey: tagKey}
}

// needsSubmissionHistory reports whether evaluating the condition
// requires the student's submission records. Mirrors the load
// heuristic: score-, count- and tag-typed conditions plus the weekly
// window trigger the fetch; pure counter conditions do not.
func (c condition) needsSubmissionHistory() bool {
	switch c.kind {
	case kindSubmissionCount, kindAverageScore, kindHighScoreStreak, kindReadTag, kindWeeklyProgress:
		return true
	default:
		return false
	}
}
