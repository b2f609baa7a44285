// handlers/workouts.go - Activity completion entry points
package handlers

import (
	"errors"

	"fitforge/database"
	"fitforge/middleware"
	"fitforge/models"
	"fitforge/progression"
	"fitforge/services"

	"github.com/gofiber/fiber/v2"
)

// CompleteWorkout records a finished tracked workout: scoring, streak,
// level-ups and the achievement checker run all happen here.
func CompleteWorkout(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var sub services.WorkoutSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := progressionService.OnActivityCompleted(c.Context(), userID, sub)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, progression.ErrInvalidActivity):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Could not save workout"})
		}
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"xp_earned":        result.XPEarned,
		"breakdown":        result.Breakdown,
		"new_level":        result.Level,
		"leveled_up":       result.LeveledUp,
		"current_xp":       result.CurrentXP,
		"xp_to_next_level": result.XPToNext,
		"streak_days":      result.StreakDays,
	})
}

// LogManualWorkout records a self-reported workout.
func LogManualWorkout(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var sub services.ManualWorkoutSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := progressionService.OnManualWorkoutLogged(c.Context(), userID, sub)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, progression.ErrInvalidActivity):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Could not save workout"})
		}
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"xp_earned":        result.XPEarned,
		"breakdown":        result.Breakdown,
		"new_level":        result.Level,
		"leveled_up":       result.LeveledUp,
		"current_xp":       result.CurrentXP,
		"xp_to_next_level": result.XPToNext,
		"streak_days":      result.StreakDays,
	})
}

// GetWorkoutHistory returns the user's recent tracked and manual workouts.
func GetWorkoutHistory(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	db := database.GetDB()
	var workouts []models.Workout
	if err := db.Where("user_id = ?", userID).
		Preload("Sets").
		Order("completed_at DESC").
		Limit(limit).
		Find(&workouts).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch workouts"})
	}

	var manual []models.ManualWorkout
	if err := db.Where("user_id = ?", userID).
		Order("logged_at DESC").
		Limit(limit).
		Find(&manual).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch manual workouts"})
	}

	return c.JSON(fiber.Map{
		"success":         true,
		"workouts":        workouts,
		"manual_workouts": manual,
	})
}
