package achievements

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/inkroom/backend/internal/models"
)

// Service owns the achievement catalog and the student-facing
// achievements view. Evaluation lives on Engine.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// TeacherAchievement is a catalog entry with its unlock count, for the
// management view.
type TeacherAchievement struct {
	models.AchievementDefinition
	UnlockCount int `json:"unlock_count"`
}

func (s *Service) ListAchievements(ctx context.Context) ([]TeacherAchievement, error) {
	defs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.CountByAchievement(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TeacherAchievement, 0, len(defs))
	for _, def := range defs {
		out = append(out, TeacherAchievement{
			AchievementDefinition: def,
			UnlockCount:           counts[def.ID],
		})
	}
	return out, nil
}

// SaveAchievement creates or updates a catalog entry. An empty id
// means create, with a generated id.
func (s *Service) SaveAchievement(ctx context.Context, id string, req *models.SaveAchievementRequest) (*models.AchievementDefinition, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("achievement name is required")
	}
	if id == "" {
		id = uuid.New().String()
	}
	if req.Conditions == nil {
		req.Conditions = []models.AchievementCondition{}
	}

	def := &models.AchievementDefinition{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		Icon:         req.Icon,
		IsEnabled:    req.IsEnabled,
		IsHidden:     req.IsHidden,
		IsRepeatable: req.IsRepeatable,
		Conditions:   req.Conditions,
	}
	if err := s.store.Upsert(ctx, def); err != nil {
		return nil, err
	}
	return def, nil
}

func (s *Service) DeleteAchievement(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// ListForStudent returns the catalog as the student sees it: every
// enabled achievement, except hidden ones stay invisible until the
// student has unlocked them. Unlocked entries sort first, newest
// unlock on top.
func (s *Service) ListForStudent(ctx context.Context, studentID string) ([]models.StudentAchievement, error) {
	defs, err := s.store.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]models.UnlockRecord, len(records))
	for _, r := range records {
		unlocked[r.AchievementID] = r
	}

	out := make([]models.StudentAchievement, 0, len(defs))
	for _, def := range defs {
		rec, has := unlocked[def.ID]
		if def.IsHidden && !has {
			continue
		}
		sa := models.StudentAchievement{
			AchievementDefinition: def,
			Unlocked:              has,
		}
		if has {
			at := rec.UnlockedAt
			sa.UnlockedAt = &at
			sa.Count = rec.Count
		}
		out = append(out, sa)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Unlocked != out[j].Unlocked {
			return out[i].Unlocked
		}
		if out[i].Unlocked && out[j].Unlocked {
			return out[i].UnlockedAt.After(*out[j].UnlockedAt)
		}
		return false
	})
	return out, nil
}
