package achievements

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

// ── Catalog ─────────────────────────────────────────────

const achievementColumns = `id, name, description, icon, is_enabled, is_hidden, is_repeatable, conditions, created_at`

func (s *Store) ListAll(ctx context.Context) ([]models.AchievementDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	return scanDefinitions(rows)
}

func (s *Store) ListEnabled(ctx context.Context) ([]models.AchievementDefinition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements WHERE is_enabled = TRUE ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list enabled achievements: %w", err)
	}
	defer rows.Close()

	return scanDefinitions(rows)
}

func (s *Store) Get(ctx context.Context, id string) (*models.AchievementDefinition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+achievementColumns+` FROM achievements WHERE id = $1`,
		id,
	)
	def, err := scanDefinition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get achievement: %w", err)
	}
	return def, nil
}

func (s *Store) Upsert(ctx context.Context, def *models.AchievementDefinition) error {
	condJSON, err := json.Marshal(def.Conditions)
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO achievements (id, name, description, icon, is_enabled, is_hidden, is_repeatable, conditions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		    name = $2, description = $3, icon = $4,
		    is_enabled = $5, is_hidden = $6, is_repeatable = $7, conditions = $8
		 RETURNING created_at`,
		def.ID, def.Name, def.Description, def.Icon,
		def.IsEnabled, def.IsHidden, def.IsRepeatable, condJSON,
	).Scan(&def.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert achievement: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete achievement: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type definitionScanner interface {
	Scan(dest ...interface{}) error
}

func scanDefinition(row definitionScanner) (*models.AchievementDefinition, error) {
	var def models.AchievementDefinition
	var condJSON []byte
	if err := row.Scan(&def.ID, &def.Name, &def.Description, &def.Icon,
		&def.IsEnabled, &def.IsHidden, &def.IsRepeatable, &condJSON, &def.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(condJSON, &def.Conditions); err != nil {
		return nil, fmt.Errorf("unmarshal conditions for %s: %w", def.ID, err)
	}
	return &def, nil
}

func scanDefinitions(rows *sql.Rows) ([]models.AchievementDefinition, error) {
	var defs []models.AchievementDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

// ── Unlock ledger ───────────────────────────────────────

func (s *Store) ListByStudent(ctx context.Context, studentID string) ([]models.UnlockRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, class_id, achievement_id, unlocked_at, count
		 FROM student_achievements WHERE student_id = $1`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	defer rows.Close()

	var recs []models.UnlockRecord
	for rows.Next() {
		var r models.UnlockRecord
		if err := rows.Scan(&r.ID, &r.StudentID, &r.ClassID, &r.AchievementID, &r.UnlockedAt, &r.Count); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

func (s *Store) Insert(ctx context.Context, rec *models.UnlockRecord) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO student_achievements (student_id, class_id, achievement_id, unlocked_at, count)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (student_id, achievement_id) DO UPDATE SET
		    count = student_achievements.count + 1, unlocked_at = $4
		 RETURNING id, count`,
		rec.StudentID, rec.ClassID, rec.AchievementID, rec.UnlockedAt, rec.Count,
	).Scan(&rec.ID, &rec.Count)
	if err != nil {
		return fmt.Errorf("insert unlock: %w", err)
	}
	return nil
}

func (s *Store) Touch(ctx context.Context, recordID int64, count int, unlockedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE student_achievements SET count = $2, unlocked_at = $3 WHERE id = $1`,
		recordID, count, unlockedAt,
	)
	if err != nil {
		return fmt.Errorf("update unlock: %w", err)
	}
	return nil
}

// CountByAchievement reports how many students hold each achievement,
// for the teacher's catalog view.
func (s *Store) CountByAchievement(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id, COUNT(*) FROM student_achievements GROUP BY achievement_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("count unlocks: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
