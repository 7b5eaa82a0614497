package streaks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkroom/backend/internal/models"
)

type fakeStatsStore struct {
	updates []models.StatsUpdate
	err     error
}

func (f *fakeStatsStore) ApplyStatsUpdate(ctx context.Context, studentID string, update models.StatsUpdate) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, update)
	return nil
}

type fakeAssignmentSource struct {
	due   []string
	calls int
}

func (f *fakeAssignmentSource) DueAssignmentIDs(ctx context.Context, before time.Time) ([]string, error) {
	f.calls++
	return f.due, nil
}

type fakeSubmissionSource struct {
	submitted map[string]bool
	calls     int
}

func (f *fakeSubmissionSource) AssignmentIDsByStudent(ctx context.Context, studentID string) (map[string]bool, error) {
	f.calls++
	return f.submitted, nil
}

type fakeEvaluator struct {
	events     []models.UnlockEvent
	err        error
	eventTypes []string
	lastStats  models.UserStats
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, studentID, classID, eventType string, stats models.UserStats) ([]models.UnlockEvent, error) {
	f.eventTypes = append(f.eventTypes, eventType)
	f.lastStats = stats
	return f.events, f.err
}

func newStudent() *models.Student {
	return &models.Student{
		ID:      "s1",
		ClassID: "c1",
		Stats: models.UserStats{
			LoginStreak:      2,
			CompletionStreak: 1,
			LastLoginDate:    "2026-03-17",
			TagReadCounts:    map[string]int{},
		},
	}
}

var now = time.Date(2026, 3, 18, 8, 0, 0, 0, time.Local)

func TestProcessLoginWritesOneMergedUpdate(t *testing.T) {
	stats := &fakeStatsStore{}
	assignmentSrc := &fakeAssignmentSource{due: []string{"a1"}}
	submissionSrc := &fakeSubmissionSource{submitted: map[string]bool{"a1": true}}
	eval := &fakeEvaluator{events: []models.UnlockEvent{{AchievementID: "x"}}}
	tracker := NewTracker(stats, assignmentSrc, submissionSrc, eval)

	student := newStudent()
	unlocked, err := tracker.ProcessLogin(context.Background(), student, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats.updates) != 1 {
		t.Fatalf("got %d writes, want 1 merged write", len(stats.updates))
	}
	update := stats.updates[0]
	if update.LoginStreak == nil || *update.LoginStreak != 3 {
		t.Errorf("login streak = %v, want 3", update.LoginStreak)
	}
	if update.CompletionStreak == nil || *update.CompletionStreak != 2 {
		t.Errorf("completion streak = %v, want 2", update.CompletionStreak)
	}

	if student.Stats.LoginStreak != 3 || student.Stats.CompletionStreak != 2 {
		t.Errorf("in-memory stats not updated: %+v", student.Stats)
	}
	if eval.lastStats.LoginStreak != 3 {
		t.Errorf("engine evaluated stale stats: %+v", eval.lastStats)
	}
	if len(eval.eventTypes) != 1 || eval.eventTypes[0] != "login" {
		t.Errorf("event types = %v, want [login]", eval.eventTypes)
	}
	if len(unlocked) != 1 {
		t.Errorf("unlocked = %v, want one event", unlocked)
	}
}

func TestProcessLoginSkipsCompletionLookupsWhenCheckedToday(t *testing.T) {
	stats := &fakeStatsStore{}
	assignmentSrc := &fakeAssignmentSource{due: []string{"a1"}}
	submissionSrc := &fakeSubmissionSource{}
	tracker := NewTracker(stats, assignmentSrc, submissionSrc, &fakeEvaluator{})

	student := newStudent()
	student.Stats.LastCompletionCheckDate = "2026-03-18"

	if _, err := tracker.ProcessLogin(context.Background(), student, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assignmentSrc.calls != 0 || submissionSrc.calls != 0 {
		t.Errorf("completion lookups ran (%d, %d) despite today's sentinel", assignmentSrc.calls, submissionSrc.calls)
	}
}

func TestProcessLoginSameDayWritesNothing(t *testing.T) {
	stats := &fakeStatsStore{}
	tracker := NewTracker(stats, &fakeAssignmentSource{}, &fakeSubmissionSource{}, &fakeEvaluator{})

	student := newStudent()
	student.Stats.LastLoginDate = "2026-03-18"
	student.Stats.LastCompletionCheckDate = "2026-03-18"

	if _, err := tracker.ProcessLogin(context.Background(), student, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats.updates) != 0 {
		t.Errorf("got %d writes, want 0", len(stats.updates))
	}
}

func TestProcessLoginSwallowsEngineError(t *testing.T) {
	stats := &fakeStatsStore{}
	eval := &fakeEvaluator{err: errors.New("engine down")}
	tracker := NewTracker(stats, &fakeAssignmentSource{}, &fakeSubmissionSource{}, eval)

	unlocked, err := tracker.ProcessLogin(context.Background(), newStudent(), now)
	if err != nil {
		t.Fatalf("engine error must not fail the login: %v", err)
	}
	if unlocked != nil {
		t.Errorf("unlocked = %v, want nil", unlocked)
	}
	if len(stats.updates) != 1 {
		t.Errorf("streak write skipped: %d writes", len(stats.updates))
	}
}

func TestProcessLoginSurfacesStoreError(t *testing.T) {
	stats := &fakeStatsStore{err: errors.New("db down")}
	tracker := NewTracker(stats, &fakeAssignmentSource{}, &fakeSubmissionSource{}, &fakeEvaluator{})

	if _, err := tracker.ProcessLogin(context.Background(), newStudent(), now); err == nil {
		t.Fatal("expected persistence error")
	}
}

func TestRecordQuizResultTracksAndEvaluates(t *testing.T) {
	stats := &fakeStatsStore{}
	eval := &fakeEvaluator{}
	tracker := NewTracker(stats, &fakeAssignmentSource{}, &fakeSubmissionSource{}, eval)

	student := newStudent()
	_, err := tracker.RecordQuizResult(context.Background(), student, 92, models.AssignmentTags{ContentType: "說明", Difficulty: "基礎"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats.updates) != 1 {
		t.Fatalf("got %d writes, want 1", len(stats.updates))
	}
	if student.Stats.SubmissionCount != 1 || student.Stats.HighScoreStreak != 1 {
		t.Errorf("stats after submit = %+v", student.Stats)
	}
	if student.Stats.TagReadCounts["contentType_說明"] != 1 {
		t.Errorf("tag counts = %v", student.Stats.TagReadCounts)
	}
	if len(eval.eventTypes) != 1 || eval.eventTypes[0] != "submit" {
		t.Errorf("event types = %v, want [submit]", eval.eventTypes)
	}
}
