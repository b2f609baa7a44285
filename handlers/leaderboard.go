// handlers/leaderboard.go
package handlers

import (
	"fitforge/database"
	"fitforge/models"

	"github.com/gofiber/fiber/v2"
)

type LeaderboardEntry struct {
	Rank              int    `json:"rank"`
	UserID            uint   `json:"user_id"`
	Username          string `json:"username"`
	DisplayName       string `json:"display_name"`
	Class             string `json:"class"`
	Level             int    `json:"level"`
	TotalXP           int    `json:"total_xp"`
	AchievementPoints int    `json:"achievement_points"`
	StreakDays        int    `json:"streak_days"`
}

// GetLeaderboard returns the global ranking by level, then lifetime XP.
func GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 25)
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	db := database.GetDB()
	var users []models.User
	if err := db.Where("is_guest = ?", false).
		Order("level DESC, total_xp DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:              i + 1,
			UserID:            u.ID,
			Username:          u.Username,
			DisplayName:       u.DisplayName,
			Class:             u.Class,
			Level:             u.Level,
			TotalXP:           u.TotalXP,
			AchievementPoints: u.AchievementPoints,
			StreakDays:        u.StreakDays,
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"leaderboard": entries,
	})
}
