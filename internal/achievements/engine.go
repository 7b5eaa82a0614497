package achievements

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/inkroom/backend/internal/models"
)

// Catalog reads enabled achievement definitions. The engine never
// writes the catalog.
type Catalog interface {
	ListEnabled(ctx context.Context) ([]models.AchievementDefinition, error)
}

// Ledger is the per-student unlock store. Insert and Touch are each a
// single committed write; the engine deliberately does not wrap an
// evaluation cycle in a transaction (at-least-once semantics).
type Ledger interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.UnlockRecord, error)
	Insert(ctx context.Context, rec *models.UnlockRecord) error
	Touch(ctx context.Context, recordID int64, count int, unlockedAt time.Time) error
}

// SubmissionHistory loads the student's submission records, needed
// only for score/count/tag conditions.
type SubmissionHistory interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
}

// StatsGuard persists the weekly-progress week-id sentinel. It is
// written independently of the condition outcome so the window check
// fires at most once per ISO week.
type StatsGuard interface {
	SetProgressCheckWeekID(ctx context.Context, studentID, weekID string) error
}

// Engine matches student activity against the achievement catalog and
// maintains the unlock ledger.
type Engine struct {
	catalog     Catalog
	ledger      Ledger
	submissions SubmissionHistory
	guard       StatsGuard
	now         func() time.Time
}

func NewEngine(catalog Catalog, ledger Ledger, submissions SubmissionHistory, guard StatsGuard) *Engine {
	return &Engine{
		catalog:     catalog,
		ledger:      ledger,
		submissions: submissions,
		guard:       guard,
		now:         time.Now,
	}
}

// Evaluate runs one evaluation cycle for a student and returns the
// achievements that newly unlocked or incremented. Catalog/ledger read
// errors abort the cycle; a ledger write error aborts too but the
// events already written stay committed and are returned alongside the
// error.
func (e *Engine) Evaluate(ctx context.Context, studentID, classID, eventType string, stats models.UserStats) ([]models.UnlockEvent, error) {
	defs, err := e.catalog.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}
	if len(defs) == 0 {
		return nil, nil
	}

	records, err := e.ledger.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load unlock ledger: %w", err)
	}
	unlocked := make(map[string]*models.UnlockRecord, len(records))
	for i := range records {
		unlocked[records[i].AchievementID] = &records[i]
	}

	history, err := e.loadHistoryIfNeeded(ctx, studentID, defs, unlocked)
	if err != nil {
		return nil, err
	}

	now := e.now()
	var events []models.UnlockEvent

	for _, def := range defs {
		existing := unlocked[def.ID]
		if !def.IsRepeatable && existing != nil {
			continue
		}
		if !e.allConditionsMet(ctx, def, studentID, stats, history, now) {
			continue
		}

		event := models.UnlockEvent{
			AchievementID: def.ID,
			Icon:          def.Icon,
			Name:          def.Name,
			Description:   def.Description,
		}

		if def.IsRepeatable && existing != nil {
			newCount := existing.Count + 1
			if err := e.ledger.Touch(ctx, existing.ID, newCount, now); err != nil {
				return events, fmt.Errorf("update unlock count for %s: %w", def.ID, err)
			}
			existing.Count = newCount
			event.DisplayCount = newCount
		} else {
			rec := &models.UnlockRecord{
				StudentID:     studentID,
				ClassID:       classID,
				AchievementID: def.ID,
				UnlockedAt:    now,
				Count:         1,
			}
			if err := e.ledger.Insert(ctx, rec); err != nil {
				return events, fmt.Errorf("insert unlock for %s: %w", def.ID, err)
			}
			unlocked[def.ID] = rec
			if def.IsRepeatable {
				event.DisplayCount = 1
			}
		}

		events = append(events, event)
	}

	return events, nil
}

// loadHistoryIfNeeded fetches submissions only when some enabled,
// not-terminally-unlocked achievement actually has a condition that
// reads them.
func (e *Engine) loadHistoryIfNeeded(ctx context.Context, studentID string, defs []models.AchievementDefinition, unlocked map[string]*models.UnlockRecord) ([]models.Submission, error) {
	needed := false
	for _, def := range defs {
		if !def.IsRepeatable && unlocked[def.ID] != nil {
			continue
		}
		for _, rc := range def.Conditions {
			if parseCondition(rc).needsSubmissionHistory() {
				needed = true
				break
			}
		}
		if needed {
			break
		}
	}
	if !needed {
		return nil, nil
	}

	history, err := e.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load submission history: %w", err)
	}
	return history, nil
}

// allConditionsMet is a short-circuiting AND over the definition's
// conditions. A definition with no conditions can never unlock.
func (e *Engine) allConditionsMet(ctx context.Context, def models.AchievementDefinition, studentID string, stats models.UserStats, history []models.Submission, now time.Time) bool {
	if len(def.Conditions) == 0 {
		return false
	}
	for _, rc := range def.Conditions {
		if !e.evalCondition(ctx, parseCondition(rc), studentID, stats, history, now) {
			return false
		}
	}
	return true
}

func (e *Engine) evalCondition(ctx context.Context, c condition, studentID string, stats models.UserStats, history []models.Submission, now time.Time) bool {
	switch c.kind {
	case kindSubmissionCount:
		return len(history) >= c.value
	case kindLoginStreak:
		return stats.LoginStreak >= c.value
	case kindHighScoreStreak:
		return stats.HighScoreStreak >= c.value
	case kindCompletionStreak:
		return stats.CompletionStreak >= c.value
	case kindAverageScore:
		if len(history) == 0 {
			return false
		}
		total := 0
		for _, s := range history {
			total += s.Score
		}
		return float64(total)/float64(len(history)) >= float64(c.value)
	case kindGenreExplorer:
		distinct := 0
		prefix := models.TagCategoryContentType + "_"
		for key := range stats.TagReadCounts {
			if strings.HasPrefix(key, prefix) {
				distinct++
			}
		}
		return distinct >= c.value
	case kindReadTag:
		return stats.TagReadCounts[c.tagKey] >= c.value
	case kindWeeklyProgress:
		return e.evalWeeklyProgress(ctx, studentID, stats, history, now)
	default:
		// Unknown or malformed condition: fail closed.
		return false
	}
}

// evalWeeklyProgress compares last week's total submission score to the
// week before. The week-id sentinel is advanced regardless of the
// outcome, so the comparison happens at most once per ISO week even if
// evaluation runs again.
func (e *Engine) evalWeeklyProgress(ctx context.Context, studentID string, stats models.UserStats, history []models.Submission, now time.Time) bool {
	weekID := WeekID(now)
	if stats.LastProgressCheckWeekID == weekID {
		return false
	}

	if err := e.guard.SetProgressCheckWeekID(ctx, studentID, weekID); err != nil {
		log.Printf("[achievements] failed to write weekly guard for student %s: %v", studentID, err)
	}

	startOfThisWeek := StartOfWeek(now)
	lastWeekStart := startOfThisWeek.AddDate(0, 0, -7)
	lastWeekEnd := startOfThisWeek.Add(-time.Millisecond)
	prevWeekStart := lastWeekStart.AddDate(0, 0, -7)
	prevWeekEnd := lastWeekStart.Add(-time.Millisecond)

	lastTotal, prevTotal := 0, 0
	for _, s := range history {
		// Records without a submission time are excluded from either window.
		if s.SubmittedAt.IsZero() {
			continue
		}
		if within(s.SubmittedAt, lastWeekStart, lastWeekEnd) {
			lastTotal += s.Score
		} else if within(s.SubmittedAt, prevWeekStart, prevWeekEnd) {
			prevTotal += s.Score
		}
	}

	return lastTotal > 0 && lastTotal > prevTotal
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
