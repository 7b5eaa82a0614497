package assignments

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkroom/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const assignmentColumns = `id, title, article, questions, tags, analysis, deadline, is_public, created_at`

func (s *Store) Create(ctx context.Context, a *models.Assignment) error {
	questions, tags, analysis, err := marshalParts(a)
	if err != nil {
		return err
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO assignments (id, title, article, questions, tags, analysis, deadline, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		a.ID, a.Title, a.Article, questions, tags, analysis, a.Deadline, a.IsPublic,
	).Scan(&a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, a *models.Assignment) error {
	questions, tags, analysis, err := marshalParts(a)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE assignments SET
		    title = $2, article = $3, questions = $4, tags = $5,
		    analysis = $6, deadline = $7, is_public = $8
		 WHERE id = $1`,
		a.ID, a.Title, a.Article, questions, tags, analysis, a.Deadline, a.IsPublic,
	)
	if err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.Assignment, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`,
		id,
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// List pages assignments newest first. publicOnly hides unpublished
// drafts from students.
func (s *Store) List(ctx context.Context, page, pageSize int, publicOnly bool) (*models.AssignmentListResponse, error) {
	where := ""
	if publicOnly {
		where = "WHERE is_public = TRUE"
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assignments `+where,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+assignmentColumns+` FROM assignments `+where+`
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.AssignmentListResponse{
		Assignments: assignments,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DueAssignmentIDs returns the published assignments whose deadline has
// already passed at the given instant. Assignments without a deadline
// are never due.
func (s *Store) DueAssignmentIDs(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM assignments
		 WHERE is_public = TRUE AND deadline IS NOT NULL AND deadline <= $1`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("list due assignments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func marshalParts(a *models.Assignment) (questions, tags, analysis []byte, err error) {
	if a.Questions == nil {
		a.Questions = []models.QuizQuestion{}
	}
	if questions, err = json.Marshal(a.Questions); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal questions: %w", err)
	}
	if tags, err = json.Marshal(a.Tags); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	if analysis, err = json.Marshal(a.Analysis); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return questions, tags, analysis, nil
}

type assignmentScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssignment(row assignmentScanner) (*models.Assignment, error) {
	var a models.Assignment
	var questions, tags, analysis []byte
	err := row.Scan(&a.ID, &a.Title, &a.Article, &questions, &tags, &analysis,
		&a.Deadline, &a.IsPublic, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &a.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions for %s: %w", a.ID, err)
	}
	if err := json.Unmarshal(tags, &a.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags for %s: %w", a.ID, err)
	}
	if err := json.Unmarshal(analysis, &a.Analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis for %s: %w", a.ID, err)
	}
	return &a, nil
}
