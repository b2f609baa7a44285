// database/seed.go - Default achievement definitions
package database

import (
	"log"

	"fitforge/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SeedAchievements inserts the default achievement set if the table is
// empty. Definitions are versioned by ID: changed requirements ship as new
// rows, existing rows are never mutated in place.
func SeedAchievements(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Achievement{}).Count(&count).Error; err != nil {
		log.Printf("Failed to count achievements: %v", err)
		return
	}
	if count > 0 {
		return
	}

	defaults := []models.Achievement{
		// Consistency
		{Name: "First Steps", Description: "Complete your first workout", Category: "Consistency", Rank: "E", Points: 5, XPReward: 50,
			Requirements: datatypes.JSONMap{"workouts_count": 1}},
		{Name: "Regular", Description: "Complete 10 workouts", Category: "Consistency", Rank: "D", Points: 10, XPReward: 100,
			Requirements: datatypes.JSONMap{"workouts_count": 10}},
		{Name: "Dedicated", Description: "Complete 50 workouts", Category: "Consistency", Rank: "B", Points: 25, XPReward: 250,
			Requirements: datatypes.JSONMap{"workouts_count": 50}},
		{Name: "Iron Will", Description: "Complete 200 workouts", Category: "Consistency", Rank: "S", Points: 100, XPReward: 1000,
			Requirements: datatypes.JSONMap{"workouts_count": 200}},
		{Name: "Full Week", Description: "Work out 5 times in one week", Category: "Consistency", Rank: "C", Points: 15, XPReward: 150,
			Requirements: datatypes.JSONMap{"workouts_in_week": 5}},

		// Variety
		{Name: "Explorer", Description: "Try 3 exercise types in one week", Category: "Variety", Rank: "D", Points: 10, XPReward: 100,
			Requirements: datatypes.JSONMap{"unique_exercise_types": 3}},
		{Name: "Renaissance Athlete", Description: "Try 5 exercise types in one week", Category: "Variety", Rank: "A", Points: 40, XPReward: 400,
			Requirements: datatypes.JSONMap{"unique_exercise_types": 5}},

		// Exercise type
		{Name: "Heavy Lifter", Description: "Complete 25 strength workouts", Category: "Strength", Rank: "B", Points: 25, XPReward: 250,
			Requirements: datatypes.JSONMap{"strength_workouts": 25}},
		{Name: "Bodyweight Master", Description: "Complete 25 calisthenics workouts", Category: "Calisthenics", Rank: "B", Points: 25, XPReward: 250,
			Requirements: datatypes.JSONMap{"calisthenics_workouts": 25}},
		{Name: "Road Runner", Description: "Complete 25 cardio workouts", Category: "Cardio", Rank: "B", Points: 25, XPReward: 250,
			Requirements: datatypes.JSONMap{"cardio_workouts": 25}},

		// Power days
		{Name: "Power Surge", Description: "Log 3 power days", Category: "PowerDay", Rank: "C", Points: 15, XPReward: 150,
			Requirements: datatypes.JSONMap{"power_days": 3}},
		{Name: "Unlimited Power", Description: "Log 20 power days", Category: "PowerDay", Rank: "A", Points: 40, XPReward: 400,
			Requirements: datatypes.JSONMap{"power_days": 20}},

		// Level
		{Name: "Apprentice", Description: "Reach level 5", Category: "Level", Rank: "D", Points: 10, XPReward: 100,
			Requirements: datatypes.JSONMap{"level_required": 5}},
		{Name: "Veteran", Description: "Reach level 20", Category: "Level", Rank: "A", Points: 40, XPReward: 400,
			Requirements: datatypes.JSONMap{"level_required": 20}},

		// Manual logging
		{Name: "Honest Effort", Description: "Log 10 manual workouts", Category: "Manual", Rank: "D", Points: 10, XPReward: 100,
			Requirements: datatypes.JSONMap{"manual_workouts_count": 10}},
	}

	if err := db.Create(&defaults).Error; err != nil {
		log.Printf("Failed to seed achievements: %v", err)
		return
	}
	log.Printf("✅ Seeded %d achievements", len(defaults))
}
