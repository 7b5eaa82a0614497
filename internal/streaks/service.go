package streaks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/inkroom/backend/internal/models"
)

// StatsStore persists partial stats updates. The counters and their
// sentinels in one update must land in a single statement; a write that
// splits them breaks the once-per-day guards.
type StatsStore interface {
	ApplyStatsUpdate(ctx context.Context, studentID string, update models.StatsUpdate) error
}

// AssignmentSource answers the "what was due by yesterday" query.
type AssignmentSource interface {
	DueAssignmentIDs(ctx context.Context, before time.Time) ([]string, error)
}

// SubmissionSource answers "which assignments has this student
// submitted anything for".
type SubmissionSource interface {
	AssignmentIDsByStudent(ctx context.Context, studentID string) (map[string]bool, error)
}

// Evaluator runs the achievement rule engine after a tracked event.
type Evaluator interface {
	Evaluate(ctx context.Context, studentID, classID, eventType string, stats models.UserStats) ([]models.UnlockEvent, error)
}

// Tracker wires the pure streak functions to the stores and the
// achievement engine. All methods take the student as already fetched
// by the caller; there is no ambient state.
type Tracker struct {
	stats       StatsStore
	assignments AssignmentSource
	submissions SubmissionSource
	engine      Evaluator
}

func NewTracker(stats StatsStore, assignments AssignmentSource, submissions SubmissionSource, engine Evaluator) *Tracker {
	return &Tracker{stats: stats, assignments: assignments, submissions: submissions, engine: engine}
}

// ProcessLogin handles a login event: login streak, completion streak,
// then achievement evaluation with the "login" event type. Achievement
// failures are logged, not surfaced; gamification is best-effort.
func (t *Tracker) ProcessLogin(ctx context.Context, student *models.Student, now time.Time) ([]models.UnlockEvent, error) {
	update := ProcessLogin(student.Stats, now)

	completion, err := t.completionUpdate(ctx, student, now)
	if err != nil {
		return nil, err
	}
	update = update.Merge(completion)

	if !update.IsEmpty() {
		if err := t.stats.ApplyStatsUpdate(ctx, student.ID, update); err != nil {
			return nil, fmt.Errorf("persist login streaks: %w", err)
		}
		student.Stats = update.Apply(student.Stats)
	}

	unlocked, err := t.engine.Evaluate(ctx, student.ID, student.ClassID, "login", student.Stats)
	if err != nil {
		log.Printf("[streaks] achievement check failed for student %s: %v", student.ID, err)
		return nil, nil
	}
	return unlocked, nil
}

// RecordQuizResult handles a first-time submission: high-score streak,
// submission count and tag counters, then achievement evaluation with
// the "submit" event type.
func (t *Tracker) RecordQuizResult(ctx context.Context, student *models.Student, score int, tags models.AssignmentTags) ([]models.UnlockEvent, error) {
	update := RecordQuizResult(student.Stats, score, tags)

	if err := t.stats.ApplyStatsUpdate(ctx, student.ID, update); err != nil {
		return nil, fmt.Errorf("persist submission stats: %w", err)
	}
	student.Stats = update.Apply(student.Stats)

	unlocked, err := t.engine.Evaluate(ctx, student.ID, student.ClassID, "submit", student.Stats)
	if err != nil {
		log.Printf("[streaks] achievement check failed for student %s: %v", student.ID, err)
		return nil, nil
	}
	return unlocked, nil
}

// completionUpdate skips the remote lookups entirely when the check
// already ran today.
func (t *Tracker) completionUpdate(ctx context.Context, student *models.Student, now time.Time) (models.StatsUpdate, error) {
	if student.Stats.LastCompletionCheckDate == DateString(now) {
		return models.StatsUpdate{}, nil
	}

	dueIDs, err := t.assignments.DueAssignmentIDs(ctx, EndOfYesterday(now))
	if err != nil {
		return models.StatsUpdate{}, fmt.Errorf("load due assignments: %w", err)
	}

	submitted := map[string]bool{}
	if len(dueIDs) > 0 {
		submitted, err = t.submissions.AssignmentIDsByStudent(ctx, student.ID)
		if err != nil {
			return models.StatsUpdate{}, fmt.Errorf("load student submissions: %w", err)
		}
	}

	return CheckCompletionStreak(student.Stats, now, dueIDs, submitted), nil
}
