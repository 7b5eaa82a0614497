package submissions

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/inkroom/backend/internal/assignments"
	"github.com/inkroom/backend/internal/classes"
	"github.com/inkroom/backend/internal/models"
	"github.com/inkroom/backend/internal/streaks"
)

// Service runs the quiz submission flow. The first submission per
// (student, assignment) creates the record and feeds the streak
// tracker; every later submission is a retry that only appends an
// attempt.
type Service struct {
	store       *Store
	assignments *assignments.Store
	students    *classes.Store
	tracker     *streaks.Tracker
	now         func() time.Time
}

func NewService(store *Store, assignmentStore *assignments.Store, students *classes.Store, tracker *streaks.Tracker) *Service {
	return &Service{
		store:       store,
		assignments: assignmentStore,
		students:    students,
		tracker:     tracker,
		now:         time.Now,
	}
}

func (s *Service) SubmitQuiz(ctx context.Context, studentID, classID string, req *models.SubmitQuizRequest) (*models.SubmitQuizResponse, error) {
	assignment, err := s.assignments.Get(ctx, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil || !assignment.IsPublic {
		return nil, fmt.Errorf("assignment %s not found", req.AssignmentID)
	}
	if len(assignment.Questions) == 0 {
		return nil, fmt.Errorf("assignment %s has no quiz", req.AssignmentID)
	}

	now := s.now()
	score := Grade(assignment.Questions, req.Answers)
	attempt := models.Attempt{
		Answers:         req.Answers,
		Score:           score,
		SubmittedAt:     now,
		DurationSeconds: req.DurationSeconds,
	}

	existing, err := s.store.GetByStudentAndAssignment(ctx, studentID, req.AssignmentID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.store.AppendAttempt(ctx, existing.ID, len(existing.Attempts)+1, attempt); err != nil {
			return nil, err
		}
		existing.Attempts = append(existing.Attempts, attempt)
		return &models.SubmitQuizResponse{
			Score:        score,
			HighestScore: existing.HighestScore(),
			Passed:       existing.Passed(),
			IsOverdue:    existing.IsOverdue,
			FirstAttempt: false,
			Attempts:     len(existing.Attempts),
			Unlocked:     []models.UnlockEvent{},
		}, nil
	}

	isOverdue := assignment.Deadline != nil && now.After(*assignment.Deadline)
	sub := &models.Submission{
		StudentID:    studentID,
		ClassID:      classID,
		AssignmentID: req.AssignmentID,
		Score:        score,
		Attempts:     []models.Attempt{attempt},
		SubmittedAt:  now,
		IsOverdue:    isOverdue,
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, err
	}

	// Streak updates are best-effort; a graded submission is never
	// rolled back over them.
	unlocked := []models.UnlockEvent{}
	student, err := s.students.GetStudent(ctx, studentID)
	if err != nil || student == nil {
		log.Printf("[submissions] student %s not loaded for streak update: %v", studentID, err)
	} else {
		events, trackErr := s.tracker.RecordQuizResult(ctx, student, score, assignment.Tags)
		if trackErr != nil {
			log.Printf("[submissions] streak update failed for student %s: %v", studentID, trackErr)
		} else if events != nil {
			unlocked = events
		}
	}

	return &models.SubmitQuizResponse{
		Score:        score,
		HighestScore: score,
		Passed:       sub.Passed(),
		IsOverdue:    isOverdue,
		FirstAttempt: true,
		Attempts:     1,
		Unlocked:     unlocked,
	}, nil
}

func (s *Service) MySubmissions(ctx context.Context, studentID string) ([]models.Submission, error) {
	return s.store.ListByStudent(ctx, studentID)
}

func (s *Service) MySubmissionForAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	return s.store.GetByStudentAndAssignment(ctx, studentID, assignmentID)
}

func (s *Service) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	return s.store.ListByAssignment(ctx, assignmentID)
}

func (s *Service) ListByClass(ctx context.Context, classID string) ([]models.Submission, error) {
	return s.store.ListByClass(ctx, classID)
}
