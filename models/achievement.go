// models/achievement.go
package models

import (
	"time"

	"gorm.io/datatypes"
)

type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Category    string `gorm:"not null;index" json:"category"` // Consistency, Variety, Strength, Calisthenics, PowerDay, Level, Manual
	Rank        string `gorm:"not null" json:"rank"`           // S, A, B, C, D, E
	Icon        string `json:"icon"`

	// Rewards
	XPReward int `gorm:"default:0" json:"xp_reward"`
	Points   int `gorm:"default:0" json:"points"`

	// Requirements is a polymorphic predicate descriptor, e.g.
	// {"workouts_count": 10}, {"workouts_in_week": 5},
	// {"unique_exercise_types": 4}, {"power_days": 3},
	// {"level_required": 10}, {"strength_workouts": 25}.
	Requirements datatypes.JSONMap `json:"requirements"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequirementInt reads a single integer field out of the requirements
// descriptor. JSON numbers decode as float64.
func (a *Achievement) RequirementInt(key string) (int, bool) {
	raw, ok := a.Requirements[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}

// UserAchievement marks an unlocked achievement. The composite unique index
// is the concurrency primitive: a duplicate-key error on insert means some
// other run already awarded it.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Achievement Achievement `gorm:"foreignKey:AchievementID" json:"achievement,omitempty"`
}

// AchievementProgress tracks partial progress toward one achievement.
// TargetValue is derived from the requirements descriptor on first write
// and frozen for the life of the row.
type AchievementProgress struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_progress" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_progress" json:"achievement_id"`
	CurrentValue  int       `gorm:"default:0" json:"current_value"`
	TargetValue   int       `gorm:"not null" json:"target_value"`
	IsComplete    bool      `gorm:"default:false" json:"is_complete"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (AchievementProgress) TableName() string {
	return "achievement_progress"
}
