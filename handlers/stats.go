// handlers/stats.go
package handlers

import (
	"time"

	"fitforge/database"
	"fitforge/middleware"
	"fitforge/models"

	"github.com/gofiber/fiber/v2"
)

// GetUserStats returns aggregate activity stats for the caller.
func GetUserStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	since := time.Now().UTC().AddDate(0, 0, -7)
	var weekWorkouts, weekManual int64
	db.Model(&models.Workout{}).Where("user_id = ? AND completed_at >= ?", userID, since).Count(&weekWorkouts)
	db.Model(&models.ManualWorkout{}).Where("user_id = ? AND logged_at >= ?", userID, since).Count(&weekManual)

	var totalMinutes int64
	db.Model(&models.Workout{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(duration_minutes), 0)").Scan(&totalMinutes)

	var powerDays int64
	db.Model(&models.PowerDayLog{}).Where("user_id = ?", userID).Count(&powerDays)

	return c.JSON(fiber.Map{
		"success":               true,
		"level":                 user.Level,
		"total_xp":              user.TotalXP,
		"streak_days":           user.StreakDays,
		"best_streak":           user.BestStreak,
		"workouts_count":        user.WorkoutsCount,
		"manual_workouts_count": user.ManualWorkoutsCount,
		"workouts_this_week":    weekWorkouts + weekManual,
		"total_minutes":         totalMinutes,
		"power_days":            powerDays,
		"achievements_count":    user.AchievementsCount,
		"achievement_points":    user.AchievementPoints,
	})
}
