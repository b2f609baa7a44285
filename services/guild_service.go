// services/guild_service.go - Guild membership business logic
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"fitforge/models"

	"gorm.io/gorm"
)

type GuildService struct {
	db *gorm.DB
}

func NewGuildService(db *gorm.DB) *GuildService {
	return &GuildService{db: db}
}

// CreateGuild creates a new guild with the user as owner
func (s *GuildService) CreateGuild(name, description string, isPublic bool, creatorID uint) (*models.Guild, error) {
	if name == "" {
		return nil, errors.New("guild name is required")
	}

	code, err := s.generateUniqueGuildCode()
	if err != nil {
		return nil, err
	}

	guild := &models.Guild{
		Name:        name,
		Description: description,
		GuildCode:   code,
		IsPublic:    isPublic,
		CreatorID:   creatorID,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	// Create guild and add creator as owner in a transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guild).Error; err != nil {
			return err
		}

		member := &models.GuildMember{
			GuildID:  guild.ID,
			UserID:   creatorID,
			Role:     models.GuildRoleOwner,
			JoinedAt: time.Now(),
			IsActive: true,
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	return guild, nil
}

// GetGuildByID retrieves a guild by ID with members preloaded
func (s *GuildService) GetGuildByID(guildID uint) (*models.Guild, error) {
	var guild models.Guild
	err := s.db.Where("id = ? AND is_active = ?", guildID, true).
		Preload("Members").
		Preload("Members.User").
		First(&guild).Error
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

// GetGuildByCode retrieves a guild by its join code
func (s *GuildService) GetGuildByCode(code string) (*models.Guild, error) {
	var guild models.Guild
	err := s.db.Where("guild_code = ? AND is_active = ?", code, true).
		Preload("Members").
		First(&guild).Error
	if err != nil {
		return nil, errors.New("guild not found or inactive")
	}
	return &guild, nil
}

// GetUserGuilds retrieves all guilds a user is a member of
func (s *GuildService) GetUserGuilds(userID uint) ([]models.Guild, error) {
	var guilds []models.Guild
	err := s.db.Joins("JOIN guild_members ON guild_members.guild_id = guilds.id").
		Where("guild_members.user_id = ? AND guild_members.is_active = ? AND guilds.is_active = ?", userID, true, true).
		Preload("Members").
		Find(&guilds).Error
	return guilds, err
}

// JoinGuild adds a user to a guild via its join code
func (s *GuildService) JoinGuild(code string, userID uint) (*models.Guild, error) {
	guild, err := s.GetGuildByCode(code)
	if err != nil {
		return nil, err
	}

	var existing models.GuildMember
	err = s.db.Where("guild_id = ? AND user_id = ?", guild.ID, userID).First(&existing).Error
	if err == nil {
		if existing.IsActive {
			return nil, errors.New("already a member of this guild")
		}
		// Rejoin
		existing.IsActive = true
		existing.JoinedAt = time.Now()
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return guild, nil
	}

	member := &models.GuildMember{
		GuildID:  guild.ID,
		UserID:   userID,
		Role:     models.GuildRoleMember,
		JoinedAt: time.Now(),
		IsActive: true,
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, err
	}
	return guild, nil
}

// LeaveGuild deactivates a user's membership
func (s *GuildService) LeaveGuild(guildID, userID uint) error {
	var member models.GuildMember
	err := s.db.Where("guild_id = ? AND user_id = ? AND is_active = ?", guildID, userID, true).First(&member).Error
	if err != nil {
		return errors.New("not a member of this guild")
	}

	if member.Role == models.GuildRoleOwner {
		return errors.New("owner must transfer ownership before leaving")
	}

	member.IsActive = false
	return s.db.Save(&member).Error
}

// GetMembers lists active members of a guild
func (s *GuildService) GetMembers(guildID uint) ([]models.GuildMember, error) {
	var members []models.GuildMember
	err := s.db.Where("guild_id = ? AND is_active = ?", guildID, true).
		Preload("User").
		Order("joined_at").
		Find(&members).Error
	return members, err
}

// IsMember reports whether the user is an active member of the guild
func (s *GuildService) IsMember(guildID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.GuildMember{}).
		Where("guild_id = ? AND user_id = ? AND is_active = ?", guildID, userID, true).
		Count(&count).Error
	return count > 0, err
}

// generateUniqueGuildCode generates an 8-char hex join code, retrying a
// bounded number of times on the unlikely collision
func (s *GuildService) generateUniqueGuildCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		bytes := make([]byte, 4)
		if _, err := rand.Read(bytes); err != nil {
			return "", err
		}
		code := hex.EncodeToString(bytes)

		var count int64
		if err := s.db.Model(&models.Guild{}).Where("guild_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique guild code")
}
