// models/workout.go - Tracked and manually logged activity
package models

import (
	"time"
)

// Exercise type constants used by sets, manual workouts and class passives.
const (
	ExerciseTypeStrength     = "strength"
	ExerciseTypeCardio       = "cardio"
	ExerciseTypeCalisthenics = "calisthenics"
	ExerciseTypeFlexibility  = "flexibility"
	ExerciseTypeSports       = "sports"
)

// Difficulty tiers, monotonic in XP multiplier.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Workout is a tracked workout session. Immutable once completed.
type Workout struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"not null;index"`
	User              *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name              string    `json:"name" gorm:"size:100"`
	DurationMinutes   int       `json:"duration_minutes" gorm:"default:0"`
	Difficulty        string    `json:"difficulty" gorm:"default:'beginner';size:20"`
	IsPowerDay        bool      `json:"is_power_day" gorm:"default:false"`
	HasPersonalRecord bool      `json:"has_personal_record" gorm:"default:false"`
	XPEarned          int       `json:"xp_earned" gorm:"default:0"`
	CompletedAt       time.Time `json:"completed_at" gorm:"index"`
	CreatedAt         time.Time `json:"created_at"`

	Sets []WorkoutSet `json:"sets,omitempty" gorm:"foreignKey:WorkoutID"`
}

// WorkoutSet is one set within a tracked workout.
type WorkoutSet struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	WorkoutID    uint    `json:"workout_id" gorm:"not null;index"`
	ExerciseName string  `json:"exercise_name" gorm:"not null;size:100"`
	ExerciseType string  `json:"exercise_type" gorm:"not null;size:30;index"`
	Weight       float64 `json:"weight" gorm:"default:0"`
	Reps         int     `json:"reps" gorm:"default:0"`
	SetOrder     int     `json:"set_order" gorm:"default:0"`
}

// ManualWorkout is a self-reported activity (no per-set data).
type ManualWorkout struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	User            *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ActivityType    string    `json:"activity_type" gorm:"not null;size:30;index"`
	Description     string    `json:"description" gorm:"type:text"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:0"`
	IsPowerDay      bool      `json:"is_power_day" gorm:"default:false"`
	XPEarned        int       `json:"xp_earned" gorm:"default:0"`
	LoggedAt        time.Time `json:"logged_at" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
}

// PowerDayLog records one activated power day per user per date. The
// composite unique index keeps a day from being counted twice.
type PowerDayLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_power_day"`
	Date      string    `json:"date" gorm:"not null;size:10;uniqueIndex:idx_power_day"` // YYYY-MM-DD (UTC)
	CreatedAt time.Time `json:"created_at"`
}

func (Workout) TableName() string {
	return "workouts"
}

func (WorkoutSet) TableName() string {
	return "workout_sets"
}

func (ManualWorkout) TableName() string {
	return "manual_workouts"
}

func (PowerDayLog) TableName() string {
	return "power_day_logs"
}
