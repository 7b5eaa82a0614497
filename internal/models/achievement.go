package models

import "time"

// AchievementCondition is a catalog condition as stored: a type string
// plus an optional numeric operand. Types without an operand (currently
// weekly_progress) leave Value nil.
type AchievementCondition struct {
	Type  string `json:"type"`
	Value *int   `json:"value,omitempty"`
}

// AchievementDefinition is a teacher-authored catalog entry. All
// conditions must hold simultaneously for the achievement to unlock;
// a definition with no conditions can never unlock.
type AchievementDefinition struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Icon         string                 `json:"icon"`
	IsEnabled    bool                   `json:"is_enabled"`
	IsHidden     bool                   `json:"is_hidden"`
	IsRepeatable bool                   `json:"is_repeatable"`
	Conditions   []AchievementCondition `json:"conditions"`
	CreatedAt    time.Time              `json:"created_at"`
}

// UnlockRecord is the per-(student, achievement) ledger row. Count is
// only meaningful for repeatable achievements and increments in place.
type UnlockRecord struct {
	ID            int64     `json:"id"`
	StudentID     string    `json:"student_id"`
	ClassID       string    `json:"class_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	Count         int       `json:"count"`
}

// UnlockEvent is emitted once per newly unlocked (or re-unlocked)
// achievement during an evaluation cycle.
type UnlockEvent struct {
	AchievementID string `json:"achievement_id"`
	Icon          string `json:"icon"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	DisplayCount  int    `json:"display_count,omitempty"`
}

type SaveAchievementRequest struct {
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Icon         string                 `json:"icon"`
	IsEnabled    bool                   `json:"is_enabled"`
	IsHidden     bool                   `json:"is_hidden"`
	IsRepeatable bool                   `json:"is_repeatable"`
	Conditions   []AchievementCondition `json:"conditions"`
}

// StudentAchievement pairs a catalog entry with the student's unlock
// state for the achievements list view.
type StudentAchievement struct {
	AchievementDefinition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Count      int        `json:"count,omitempty"`
}
