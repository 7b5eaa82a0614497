package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/inkroom/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a submission together with its first attempt in one
// transaction. The submission score is the first attempt's score and
// is never updated afterwards.
func (s *Store) Create(ctx context.Context, sub *models.Submission) error {
	if len(sub.Attempts) != 1 {
		return fmt.Errorf("new submission must carry exactly one attempt")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submission: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO submissions (student_id, class_id, assignment_id, score, submitted_at, is_overdue)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		sub.StudentID, sub.ClassID, sub.AssignmentID, sub.Score, sub.SubmittedAt, sub.IsOverdue,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	if err := insertAttempt(ctx, tx, sub.ID, 1, sub.Attempts[0]); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendAttempt adds a retry to an existing submission.
func (s *Store) AppendAttempt(ctx context.Context, submissionID int64, attemptNumber int, attempt models.Attempt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attempt: %w", err)
	}
	defer tx.Rollback()

	if err := insertAttempt(ctx, tx, submissionID, attemptNumber, attempt); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAttempt(ctx context.Context, tx *sql.Tx, submissionID int64, number int, a models.Attempt) error {
	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO submission_attempts (submission_id, attempt_number, answers, score, submitted_at, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		submissionID, number, answers, a.Score, a.SubmittedAt, a.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert attempt %d: %w", number, err)
	}
	return nil
}

const submissionColumns = `id, student_id, class_id, assignment_id, score, submitted_at, is_overdue`

// GetByStudentAndAssignment loads the submission with all attempts, or
// nil if the student has never submitted this assignment.
func (s *Store) GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE student_id = $1 AND assignment_id = $2`,
		studentID, assignmentID,
	).Scan(&sub.ID, &sub.StudentID, &sub.ClassID, &sub.AssignmentID,
		&sub.Score, &sub.SubmittedAt, &sub.IsOverdue)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	if err := s.loadAttempts(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) loadAttempts(ctx context.Context, sub *models.Submission) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT answers, score, submitted_at, duration_seconds
		 FROM submission_attempts
		 WHERE submission_id = $1
		 ORDER BY attempt_number`,
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Attempt
		var answers []byte
		if err := rows.Scan(&answers, &a.Score, &a.SubmittedAt, &a.DurationSeconds); err != nil {
			return fmt.Errorf("scan attempt: %w", err)
		}
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return fmt.Errorf("unmarshal answers: %w", err)
		}
		sub.Attempts = append(sub.Attempts, a)
	}
	return rows.Err()
}

// ListByStudent returns the student's submissions without attempt
// detail, newest first.
func (s *Store) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE student_id = $1 ORDER BY submitted_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

func (s *Store) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE assignment_id = $1 ORDER BY submitted_at`,
		assignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions by assignment: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListByClass returns every submission from a class, newest first.
// Backs the teacher's class overview.
func (s *Store) ListByClass(ctx context.Context, classID string) ([]models.Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE class_id = $1 ORDER BY submitted_at DESC`,
		classID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions by class: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// AssignmentIDsByStudent answers the completion check: the set of
// assignments the student has submitted anything for, regardless of
// score.
func (s *Store) AssignmentIDsByStudent(ctx context.Context, studentID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT assignment_id FROM submissions WHERE student_id = $1`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list submitted assignment ids: %w", err)
	}
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

func scanSubmissions(rows *sql.Rows) ([]models.Submission, error) {
	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.StudentID, &sub.ClassID, &sub.AssignmentID,
			&sub.Score, &sub.SubmittedAt, &sub.IsOverdue); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
