// services/raid_service.go - Guild raid progress aggregation
package services

import (
	"errors"
	"math"
	"time"

	"fitforge/models"

	"gorm.io/gorm"
)

var (
	ErrRaidNotFound    = errors.New("raid not found or not active")
	ErrNotAParticipant = errors.New("user is not a raid participant")
	ErrAlreadyCounted  = errors.New("participation already recorded for today")
)

// RaidService rolls per-member daily contributions up into guild-level
// progress against the raid target.
type RaidService struct {
	db *gorm.DB
}

func NewRaidService(db *gorm.DB) *RaidService {
	return &RaidService{db: db}
}

// RaidProgress is the aggregated guild-level view.
type RaidProgress struct {
	RaidID           uint    `json:"raid_id"`
	CurrentValue     int     `json:"current_value"`
	TargetValue      int     `json:"target_value"`
	Percentage       float64 `json:"percentage"`
	ParticipantCount int     `json:"participant_count"`
}

// CreateRaid starts a raid for a guild.
func (s *RaidService) CreateRaid(guildID, creatorID uint, name string, raidType models.RaidType, daysRequired, xpReward int, start, end time.Time) (*models.GuildRaid, error) {
	if name == "" {
		return nil, errors.New("raid name is required")
	}
	if daysRequired <= 0 {
		return nil, errors.New("days required must be positive")
	}
	if !end.After(start) {
		return nil, errors.New("raid end date must be after start date")
	}

	raid := &models.GuildRaid{
		GuildID:      guildID,
		Name:         name,
		RaidType:     raidType,
		StartDate:    start,
		EndDate:      end,
		DaysRequired: daysRequired,
		XPReward:     xpReward,
		Status:       models.RaidStatusActive,
		CreatedBy:    creatorID,
		CreatedAt:    time.Now().UTC(),
	}

	// Create the raid and enroll every active guild member in one
	// transaction so progress math never sees a raid without participants.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(raid).Error; err != nil {
			return err
		}

		var members []models.GuildMember
		if err := tx.Where("guild_id = ? AND is_active = ?", guildID, true).Find(&members).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, m := range members {
			p := models.RaidParticipant{
				RaidID:   raid.ID,
				UserID:   m.UserID,
				JoinedAt: now,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raid, nil
}

// RecordParticipation counts one qualifying day for one participant.
// Hardened against double counting: a second call on the same UTC date is a
// no-op returning ErrAlreadyCounted. DaysCompleted never decreases.
func (s *RaidService) RecordParticipation(raidID, userID uint) error {
	var raid models.GuildRaid
	if err := s.db.Where("id = ? AND status = ?", raidID, models.RaidStatusActive).First(&raid).Error; err != nil {
		return ErrRaidNotFound
	}

	var p models.RaidParticipant
	if err := s.db.Where("raid_id = ? AND user_id = ?", raidID, userID).First(&p).Error; err != nil {
		return ErrNotAParticipant
	}

	now := time.Now().UTC()
	if p.LastParticipationAt != nil && sameUTCDate(*p.LastParticipationAt, now) {
		return ErrAlreadyCounted
	}

	// Guard the date check in SQL too, so two racing calls on the same day
	// cannot both increment.
	res := s.db.Model(&models.RaidParticipant{}).
		Where("id = ? AND (last_participation_at IS NULL OR last_participation_at < ?)", p.ID, startOfUTCDay(now)).
		UpdateColumns(map[string]interface{}{
			"days_completed":        gorm.Expr("days_completed + 1"),
			"last_participation_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAlreadyCounted
	}
	return nil
}

// GetProgress aggregates the guild-level completion percentage:
// target = daysRequired x participantCount, capped at 100%.
func (s *RaidService) GetProgress(raidID uint) (*RaidProgress, error) {
	var raid models.GuildRaid
	if err := s.db.First(&raid, raidID).Error; err != nil {
		return nil, ErrRaidNotFound
	}

	var participants []models.RaidParticipant
	if err := s.db.Where("raid_id = ?", raidID).Find(&participants).Error; err != nil {
		return nil, err
	}

	total := 0
	for _, p := range participants {
		total += p.DaysCompleted
	}

	target := raid.DaysRequired * len(participants)
	percentage := 0.0
	if target > 0 {
		percentage = math.Min(100, float64(total)/float64(target)*100)
	}

	return &RaidProgress{
		RaidID:           raid.ID,
		CurrentValue:     total,
		TargetValue:      target,
		Percentage:       percentage,
		ParticipantCount: len(participants),
	}, nil
}

// GetGuildRaids lists raids for a guild, newest first.
func (s *RaidService) GetGuildRaids(guildID uint) ([]models.GuildRaid, error) {
	var raids []models.GuildRaid
	err := s.db.Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Preload("Participants").
		Find(&raids).Error
	return raids, err
}

func sameUTCDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func startOfUTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
