package services

import (
	"testing"
	"time"

	"fitforge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createGuildWithMembers(t *testing.T, db *gorm.DB, usernames ...string) (models.Guild, []*models.User) {
	t.Helper()

	users := make([]*models.User, len(usernames))
	for i, name := range usernames {
		users[i] = createTestUser(t, db, name)
	}

	guild := models.Guild{
		Name:      "Iron Pact",
		GuildCode: "IRON01",
		IsActive:  true,
		CreatorID: users[0].ID,
	}
	require.NoError(t, db.Create(&guild).Error)

	now := time.Now().UTC()
	for i, u := range users {
		role := models.GuildRoleMember
		if i == 0 {
			role = models.GuildRoleOwner
		}
		m := models.GuildMember{
			GuildID:  guild.ID,
			UserID:   u.ID,
			Role:     role,
			JoinedAt: now,
			IsActive: true,
		}
		require.NoError(t, db.Create(&m).Error)
	}
	return guild, users
}

func startRaid(t *testing.T, svc *RaidService, guildID, creatorID uint, daysRequired int) *models.GuildRaid {
	t.Helper()
	now := time.Now().UTC()
	raid, err := svc.CreateRaid(guildID, creatorID, "Week of Iron", models.RaidTypeConsistency,
		daysRequired, 500, now, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	return raid
}

func TestCreateRaid_EnrollsActiveMembers(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "tess", "uma", "vik")

	// Deactivated members are not enrolled.
	require.NoError(t, db.Model(&models.GuildMember{}).
		Where("guild_id = ? AND user_id = ?", guild.ID, users[2].ID).
		Update("is_active", false).Error)

	svc := NewRaidService(db)
	raid := startRaid(t, svc, guild.ID, users[0].ID, 3)

	var participants int64
	db.Model(&models.RaidParticipant{}).Where("raid_id = ?", raid.ID).Count(&participants)
	assert.Equal(t, int64(2), participants)
}

func TestCreateRaid_Validation(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "wes")
	svc := NewRaidService(db)
	now := time.Now().UTC()

	_, err := svc.CreateRaid(guild.ID, users[0].ID, "", models.RaidTypeConsistency, 3, 500, now, now.AddDate(0, 0, 7))
	assert.Error(t, err)

	_, err = svc.CreateRaid(guild.ID, users[0].ID, "Raid", models.RaidTypeConsistency, 0, 500, now, now.AddDate(0, 0, 7))
	assert.Error(t, err)

	_, err = svc.CreateRaid(guild.ID, users[0].ID, "Raid", models.RaidTypeConsistency, 3, 500, now, now.AddDate(0, 0, -1))
	assert.Error(t, err)
}

func TestRecordParticipation_OncePerUTCDay(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "xia", "yan")
	svc := NewRaidService(db)
	raid := startRaid(t, svc, guild.ID, users[0].ID, 3)

	require.NoError(t, svc.RecordParticipation(raid.ID, users[0].ID))
	assert.ErrorIs(t, svc.RecordParticipation(raid.ID, users[0].ID), ErrAlreadyCounted)

	var p models.RaidParticipant
	require.NoError(t, db.Where("raid_id = ? AND user_id = ?", raid.ID, users[0].ID).First(&p).Error)
	assert.Equal(t, 1, p.DaysCompleted)
}

func TestRecordParticipation_NonParticipantRejected(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "zed")
	outsider := createTestUser(t, db, "outsider")

	svc := NewRaidService(db)
	raid := startRaid(t, svc, guild.ID, users[0].ID, 3)

	assert.ErrorIs(t, svc.RecordParticipation(raid.ID, outsider.ID), ErrNotAParticipant)
}

func TestRecordParticipation_InactiveRaidRejected(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "abe")
	svc := NewRaidService(db)
	raid := startRaid(t, svc, guild.ID, users[0].ID, 3)

	require.NoError(t, db.Model(&models.GuildRaid{}).Where("id = ?", raid.ID).
		Update("status", models.RaidStatusCompleted).Error)

	assert.ErrorIs(t, svc.RecordParticipation(raid.ID, users[0].ID), ErrRaidNotFound)
}

func TestGetProgress_AggregatesAcrossParticipants(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "bea", "cal")
	svc := NewRaidService(db)
	raid := startRaid(t, svc, guild.ID, users[0].ID, 3)

	// daysRequired=3, two participants: target = 6. One member at 3 days,
	// the other at 1: 4/6 ~ 66.7%.
	require.NoError(t, db.Model(&models.RaidParticipant{}).
		Where("raid_id = ? AND user_id = ?", raid.ID, users[0].ID).
		Update("days_completed", 3).Error)
	require.NoError(t, db.Model(&models.RaidParticipant{}).
		Where("raid_id = ? AND user_id = ?", raid.ID, users[1].ID).
		Update("days_completed", 1).Error)

	progress, err := svc.GetProgress(raid.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, progress.CurrentValue)
	assert.Equal(t, 6, progress.TargetValue)
	assert.Equal(t, 2, progress.ParticipantCount)
	assert.InDelta(t, 66.7, progress.Percentage, 0.05)
}

func TestGetProgress_CappedAtHundred(t *testing.T) {
	db := newTestDB(t)
	guild, users := createGuildWithMembers(t, db, "dee")
	svc := NewRaidService(db)
	raid := startRaid(t, svc, guild.ID, users[0].ID, 2)

	require.NoError(t, db.Model(&models.RaidParticipant{}).
		Where("raid_id = ?", raid.ID).
		Update("days_completed", 10).Error)

	progress, err := svc.GetProgress(raid.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, progress.Percentage)
}
