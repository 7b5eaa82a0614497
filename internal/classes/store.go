package classes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/inkroom/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Classes ─────────────────────────────────────────────

func (s *Store) CreateClass(ctx context.Context, class *models.Class) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO classes (id, class_name) VALUES ($1, $2) RETURNING created_at`,
		class.ID, class.ClassName,
	).Scan(&class.CreatedAt)
	if err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

func (s *Store) GetClass(ctx context.Context, id string) (*models.Class, error) {
	var c models.Class
	err := s.db.QueryRowContext(ctx,
		`SELECT id, class_name, created_at FROM classes WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.ClassName, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get class: %w", err)
	}
	return &c, nil
}

func (s *Store) ListClasses(ctx context.Context) ([]models.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, class_name, created_at FROM classes ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var classes []models.Class
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.ClassName, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (s *Store) DeleteClass(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ── Students ────────────────────────────────────────────

const studentColumns = `id, class_id, seat_number, name, password,
        login_streak, high_score_streak, completion_streak, submission_count,
        tag_read_counts,
        COALESCE(last_login_date, ''), COALESCE(last_completion_check_date, ''),
        COALESCE(last_progress_check_week_id, ''), created_at`

func (s *Store) CreateStudent(ctx context.Context, student *models.Student) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO students (id, class_id, seat_number, name, password)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		student.ID, student.ClassID, student.SeatNumber, student.Name, student.Password,
	).Scan(&student.CreatedAt)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

func (s *Store) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`,
		id,
	)
	st, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	return st, nil
}

func (s *Store) GetStudentBySeat(ctx context.Context, classID string, seatNumber int) (*models.Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE class_id = $1 AND seat_number = $2`,
		classID, seatNumber,
	)
	st, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student by seat: %w", err)
	}
	return st, nil
}

func (s *Store) ListStudents(ctx context.Context, classID string) ([]models.Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE class_id = $1 ORDER BY seat_number`,
		classID,
	)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, *st)
	}
	return students, rows.Err()
}

func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *Store) UpdateStudentPassword(ctx context.Context, id, hashedPassword string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE students SET password = $2 WHERE id = $1`,
		id, hashedPassword,
	)
	if err != nil {
		return fmt.Errorf("update student password: %w", err)
	}
	return nil
}

type studentScanner interface {
	Scan(dest ...interface{}) error
}

func scanStudent(row studentScanner) (*models.Student, error) {
	var st models.Student
	var tagJSON []byte
	err := row.Scan(&st.ID, &st.ClassID, &st.SeatNumber, &st.Name, &st.Password,
		&st.Stats.LoginStreak, &st.Stats.HighScoreStreak, &st.Stats.CompletionStreak,
		&st.Stats.SubmissionCount, &tagJSON,
		&st.Stats.LastLoginDate, &st.Stats.LastCompletionCheckDate,
		&st.Stats.LastProgressCheckWeekID, &st.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagJSON, &st.Stats.TagReadCounts); err != nil {
		return nil, fmt.Errorf("unmarshal tag counts for %s: %w", st.ID, err)
	}
	return &st, nil
}

// ── Stats writes ────────────────────────────────────────

// ApplyStatsUpdate writes all set fields of the update in a single
// UPDATE so a counter never lands without its sentinel.
func (s *Store) ApplyStatsUpdate(ctx context.Context, studentID string, update models.StatsUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	var sets []string
	var args []interface{}
	args = append(args, studentID)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if update.LoginStreak != nil {
		add("login_streak", *update.LoginStreak)
	}
	if update.HighScoreStreak != nil {
		add("high_score_streak", *update.HighScoreStreak)
	}
	if update.CompletionStreak != nil {
		add("completion_streak", *update.CompletionStreak)
	}
	if update.SubmissionCount != nil {
		add("submission_count", *update.SubmissionCount)
	}
	if update.TagReadCounts != nil {
		tagJSON, err := json.Marshal(update.TagReadCounts)
		if err != nil {
			return fmt.Errorf("marshal tag counts: %w", err)
		}
		add("tag_read_counts", tagJSON)
	}
	if update.LastLoginDate != nil {
		add("last_login_date", *update.LastLoginDate)
	}
	if update.LastCompletionCheckDate != nil {
		add("last_completion_check_date", *update.LastCompletionCheckDate)
	}
	if update.LastProgressCheckWeekID != nil {
		add("last_progress_check_week_id", *update.LastProgressCheckWeekID)
	}

	query := `UPDATE students SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("apply stats update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("student %s not found", studentID)
	}
	return nil
}

func (s *Store) SetProgressCheckWeekID(ctx context.Context, studentID, weekID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE students SET last_progress_check_week_id = $2 WHERE id = $1`,
		studentID, weekID,
	)
	if err != nil {
		return fmt.Errorf("set progress week: %w", err)
	}
	return nil
}
