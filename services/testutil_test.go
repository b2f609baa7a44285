package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"fitforge/models"

	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database per test. Single
// connection: the checker pipeline runs concurrently and sqlite's shared
// cache does not tolerate parallel writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.WorkoutSet{},
		&models.ManualWorkout{},
		&models.PowerDayLog{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.AchievementProgress{},
		&models.Guild{},
		&models.GuildMember{},
		&models.GuildRaid{},
		&models.RaidParticipant{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Password: "hashed",
		Level:    1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// spyNotifier records notifications for assertions.
type spyNotifier struct {
	mu     sync.Mutex
	events []string
}

func (s *spyNotifier) NotifyAchievement(userID uint, name, description string, xpReward int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf("%d:%s", userID, name))
}

func (s *spyNotifier) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
