// handlers/auth.go
package handlers

import (
	"fmt"
	"time"

	"fitforge/database"
	"fitforge/middleware"
	"fitforge/models"
	"fitforge/progression"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Class    string `json:"class"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Class    string `json:"class"`
	IsGuest  bool   `json:"is_guest"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
}

// Register creates a new account with an optional character class.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Username == "" || len(req.Password) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "Username required and password must be at least 8 characters"})
	}
	if req.Class != "" && !progression.ValidClass(req.Class) {
		return c.Status(400).JSON(fiber.Map{"error": "Unknown class", "classes": progression.Classes()})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to process password"})
	}

	db := database.GetDB()
	user := models.User{
		Username:    req.Username,
		Password:    string(hashed),
		DisplayName: req.Username,
		Class:       req.Class,
		Level:       1,
		LastLogin:   time.Now(),
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(409).JSON(fiber.Map{"error": "Username or email already taken"})
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, false)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userInfo(&user),
	})
}

// Login authenticates an existing account.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	user.LastLogin = time.Now()
	db.Model(&user).Update("last_login", user.LastLogin)

	token, err := middleware.GenerateToken(user.ID, user.Username, user.IsGuest)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userInfo(&user),
	})
}

// GuestLogin creates a throwaway guest account so the app is usable before
// registration.
func GuestLogin(c *fiber.Ctx) error {
	db := database.GetDB()

	guestName := fmt.Sprintf("guest_%s", uuid.New().String()[:8])
	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create guest"})
	}

	user := models.User{
		Username:    guestName,
		Password:    string(hashed),
		DisplayName: "Guest",
		IsGuest:     true,
		Level:       1,
		LastLogin:   time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create guest"})
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, true)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userInfo(&user),
	})
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Class:    user.Class,
		IsGuest:  user.IsGuest,
		Level:    user.Level,
		XP:       user.XP,
	}
}
