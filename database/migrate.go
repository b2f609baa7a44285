// database/migrate.go - Database Migration Runner
package database

import (
	"fitforge/models"
	"log"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.WorkoutSet{},
		&models.ManualWorkout{},
		&models.PowerDayLog{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.AchievementProgress{},
		&models.Guild{},
		&models.GuildMember{},
		&models.GuildRaid{},
		&models.RaidParticipant{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()
	SeedAchievements(db)

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates query indexes not covered by model tags
func createIndexes() {
	db := GetDB()
	log.Println("Creating indexes...")

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_level ON users(level DESC, total_xp DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_guest ON users(is_guest)")

	// Activity indexes (weekly/variety checkers filter by user + date range)
	db.Exec("CREATE INDEX IF NOT EXISTS idx_workouts_user_completed ON workouts(user_id, completed_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_manual_workouts_user_logged ON manual_workouts(user_id, logged_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_workout_sets_workout ON workout_sets(workout_id)")

	// Achievement indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_user_achievements_user ON user_achievements(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_achievement_progress_user ON achievement_progress(user_id)")

	// Raid indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_guild_raids_guild ON guild_raids(guild_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_raid_participants_raid ON raid_participants(raid_id)")

	log.Println("✅ Indexes created successfully")
}
