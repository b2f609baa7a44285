// models/raid.go - Guild raid data models
package models

import (
	"time"
)

type RaidType string

const (
	RaidTypeConsistency RaidType = "consistency"
	RaidTypeBeast       RaidType = "beast"
	RaidTypeElemental   RaidType = "elemental"
)

type RaidStatus string

const (
	RaidStatusPending   RaidStatus = "pending"
	RaidStatusActive    RaidStatus = "active"
	RaidStatusCompleted RaidStatus = "completed"
	RaidStatusExpired   RaidStatus = "expired"
)

// GuildRaid is a time-boxed collective goal: every participant contributes
// qualifying days until the guild-wide target is met.
type GuildRaid struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	GuildID      uint       `json:"guild_id" gorm:"not null;index"`
	Guild        *Guild     `json:"guild,omitempty" gorm:"foreignKey:GuildID"`
	Name         string     `json:"name" gorm:"not null;size:100"`
	RaidType     RaidType   `json:"raid_type" gorm:"not null;default:'consistency'"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	DaysRequired int        `json:"days_required" gorm:"not null;default:3"`
	XPReward     int        `json:"xp_reward" gorm:"default:0"`
	Status       RaidStatus `json:"status" gorm:"not null;default:'active';index"`
	CreatedBy    uint       `json:"created_by" gorm:"not null"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Participants []RaidParticipant `json:"participants,omitempty" gorm:"foreignKey:RaidID"`
}

// RaidParticipant tracks one member's contribution. DaysCompleted is
// incremented at most once per qualifying day and never decremented.
type RaidParticipant struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	RaidID              uint       `json:"raid_id" gorm:"not null;uniqueIndex:idx_raid_participant"`
	Raid                *GuildRaid `json:"raid,omitempty" gorm:"foreignKey:RaidID"`
	UserID              uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_raid_participant"`
	User                *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	DaysCompleted       int        `json:"days_completed" gorm:"default:0"`
	LastParticipationAt *time.Time `json:"last_participation_at"`
	JoinedAt            time.Time  `json:"joined_at" gorm:"not null"`
}

func (GuildRaid) TableName() string {
	return "guild_raids"
}

func (RaidParticipant) TableName() string {
	return "raid_participants"
}
