// models/guild.go
package models

import "time"

type Guild struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null;size:100"`
	Description string        `json:"description" gorm:"type:text"`
	GuildCode   string        `json:"guild_code" gorm:"unique;size:10"`
	IsPublic    bool          `json:"is_public" gorm:"default:true"`
	IsActive    bool          `json:"is_active" gorm:"default:true;index"`
	CreatorID   uint          `json:"creator_id" gorm:"not null"`
	Creator     *User         `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Members     []GuildMember `json:"members,omitempty" gorm:"foreignKey:GuildID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type GuildRole string

const (
	GuildRoleOwner  GuildRole = "owner"
	GuildRoleLeader GuildRole = "leader"
	GuildRoleMember GuildRole = "member"
)

type GuildMember struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	GuildID    uint      `json:"guild_id" gorm:"not null;index"`
	Guild      *Guild    `json:"guild,omitempty" gorm:"foreignKey:GuildID"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	User       *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role       GuildRole `json:"role" gorm:"not null;default:'member'"`
	JoinedAt   time.Time `json:"joined_at" gorm:"not null"`
	IsActive   bool      `json:"is_active" gorm:"default:true;index"`
	LastActive time.Time `json:"last_active"`
}

func (Guild) TableName() string {
	return "guilds"
}

func (GuildMember) TableName() string {
	return "guild_members"
}
