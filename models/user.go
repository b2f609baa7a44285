// models/user.go
package models

import (
	"time"
)

type User struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Username    string  `gorm:"uniqueIndex;not null" json:"username"`
	Email       *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password    string  `gorm:"not null" json:"-"`
	DisplayName string  `json:"display_name"`
	Avatar      string  `json:"avatar"`
	IsGuest     bool    `gorm:"default:false" json:"is_guest"`

	// Character class drives passive XP bonuses (see the progression package)
	Class string `gorm:"size:30" json:"class"`

	// Progression
	Level   int `gorm:"default:1" json:"level"`
	XP      int `gorm:"default:0" json:"xp"`
	TotalXP int `gorm:"default:0" json:"total_xp"`

	// Stats
	StreakDays          int        `gorm:"default:0" json:"streak_days"`
	BestStreak          int        `gorm:"default:0" json:"best_streak"`
	LastWorkoutDate     *time.Time `json:"last_workout_date,omitempty"`
	WorkoutsCount       int        `gorm:"default:0" json:"workouts_count"`
	ManualWorkoutsCount int        `gorm:"default:0" json:"manual_workouts_count"`
	AchievementsCount   int        `gorm:"default:0" json:"achievements_count"`
	AchievementPoints   int        `gorm:"default:0" json:"achievement_points"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	LastLogin time.Time `json:"last_login"`

	// Relationships
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"achievements,omitempty"`
	Workouts     []Workout         `gorm:"foreignKey:UserID" json:"workouts,omitempty"`
}
