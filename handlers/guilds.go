// handlers/guilds.go
package handlers

import (
	"fitforge/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateGuildRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type JoinGuildRequest struct {
	GuildCode string `json:"guild_code"`
}

func CreateGuild(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateGuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	guild, err := guildService.CreateGuild(req.Name, req.Description, req.IsPublic, userID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "guild": guild})
}

func JoinGuild(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req JoinGuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	guild, err := guildService.JoinGuild(req.GuildCode, userID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "guild": guild})
}

func GetGuild(c *fiber.Ctx) error {
	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild ID"})
	}

	guild, err := guildService.GetGuildByID(uint(guildID))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Guild not found"})
	}

	return c.JSON(fiber.Map{"success": true, "guild": guild})
}

func GetUserGuilds(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guilds, err := guildService.GetUserGuilds(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch guilds"})
	}

	return c.JSON(fiber.Map{"success": true, "guilds": guilds})
}

func LeaveGuild(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild ID"})
	}

	if err := guildService.LeaveGuild(uint(guildID), userID); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true})
}

func GetGuildMembers(c *fiber.Ctx) error {
	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild ID"})
	}

	members, err := guildService.GetMembers(uint(guildID))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch members"})
	}

	return c.JSON(fiber.Map{"success": true, "members": members})
}
