// handlers/progression.go
package handlers

import (
	"fitforge/database"
	"fitforge/middleware"
	"fitforge/models"
	"fitforge/progression"

	"github.com/gofiber/fiber/v2"
)

func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	xpToNext := progression.XPForLevel(user.Level + 1)
	progressPct := (float64(user.XP) / float64(xpToNext)) * 100

	return c.JSON(fiber.Map{
		"success":            true,
		"level":              user.Level,
		"xp":                 user.XP,
		"total_xp":           user.TotalXP,
		"xp_to_next_level":   xpToNext,
		"progress_percent":   progressPct,
		"class":              user.Class,
		"streak_days":        user.StreakDays,
		"best_streak":        user.BestStreak,
		"workouts_count":     user.WorkoutsCount,
		"manual_workouts":    user.ManualWorkoutsCount,
		"achievements_count": user.AchievementsCount,
		"achievement_points": user.AchievementPoints,
	})
}

// GetUserAchievements lists every achievement with the user's unlock state.
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var unlocked []models.UserAchievement
	if err := db.Where("user_id = ?", userID).Order("unlocked_at DESC").Find(&unlocked).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	all, err := achievementCache.Get(c.Context())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievement definitions"})
	}

	unlockedMap := make(map[uint]models.UserAchievement)
	for _, ua := range unlocked {
		unlockedMap[ua.AchievementID] = ua
	}

	achievements := make([]fiber.Map, 0, len(all))
	for _, achievement := range all {
		achData := fiber.Map{
			"id":          achievement.ID,
			"name":        achievement.Name,
			"description": achievement.Description,
			"category":    achievement.Category,
			"rank":        achievement.Rank,
			"icon":        achievement.Icon,
			"xp_reward":   achievement.XPReward,
			"points":      achievement.Points,
			"unlocked":    false,
		}
		if ua, ok := unlockedMap[achievement.ID]; ok {
			achData["unlocked"] = true
			achData["unlocked_at"] = ua.UnlockedAt
		}
		achievements = append(achievements, achData)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
		"total":        len(all),
		"unlocked":     len(unlocked),
	})
}

// GetAchievementProgress returns the user's partial progress rows.
func GetAchievementProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var rows []models.AchievementProgress
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch progress"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"progress": rows,
	})
}

// RescanAchievements re-runs the checker pipeline for the caller. Checkers
// are idempotent, so this recovers any unlock missed by a failed run.
func RescanAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	if err := checkerPipeline.Run(c.Context(), userID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Rescan failed"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// InvalidateAchievementCache forces definitions to reload on next use.
func InvalidateAchievementCache(c *fiber.Ctx) error {
	achievementCache.Invalidate()
	return c.JSON(fiber.Map{"success": true})
}
