// handlers/raids.go - Guild raid endpoints
package handlers

import (
	"errors"
	"time"

	"fitforge/middleware"
	"fitforge/models"
	"fitforge/services"

	"github.com/gofiber/fiber/v2"
)

type CreateRaidRequest struct {
	Name         string    `json:"name"`
	RaidType     string    `json:"raid_type"`
	DaysRequired int       `json:"days_required"`
	XPReward     int       `json:"xp_reward"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

func CreateRaid(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild ID"})
	}

	isMember, err := guildService.IsMember(uint(guildID), userID)
	if err != nil || !isMember {
		return c.Status(403).JSON(fiber.Map{"error": "Not a member of this guild"})
	}

	var req CreateRaidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	raidType := models.RaidType(req.RaidType)
	switch raidType {
	case models.RaidTypeConsistency, models.RaidTypeBeast, models.RaidTypeElemental:
	default:
		return c.Status(400).JSON(fiber.Map{"error": "Unknown raid type"})
	}

	raid, err := raidService.CreateRaid(uint(guildID), userID, req.Name, raidType,
		req.DaysRequired, req.XPReward, req.StartDate, req.EndDate)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "raid": raid})
}

// RecordRaidParticipation counts one qualifying day for the caller.
func RecordRaidParticipation(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	raidID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raid ID"})
	}

	err = raidService.RecordParticipation(uint(raidID), userID)
	switch {
	case errors.Is(err, services.ErrRaidNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "Raid not found or not active"})
	case errors.Is(err, services.ErrNotAParticipant):
		return c.Status(403).JSON(fiber.Map{"error": "Not a raid participant"})
	case errors.Is(err, services.ErrAlreadyCounted):
		return c.JSON(fiber.Map{"success": true, "counted": false, "message": "Already counted today"})
	case err != nil:
		return c.Status(500).JSON(fiber.Map{"error": "Could not record participation"})
	}

	progress, err := raidService.GetProgress(uint(raidID))
	if err != nil {
		return c.JSON(fiber.Map{"success": true, "counted": true})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"counted":  true,
		"progress": progress,
	})
}

func GetRaidProgress(c *fiber.Ctx) error {
	raidID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raid ID"})
	}

	progress, err := raidService.GetProgress(uint(raidID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Raid not found"})
	}

	return c.JSON(fiber.Map{"success": true, "progress": progress})
}

func GetGuildRaids(c *fiber.Ctx) error {
	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild ID"})
	}

	raids, err := raidService.GetGuildRaids(uint(guildID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch raids"})
	}

	return c.JSON(fiber.Map{"success": true, "raids": raids})
}
