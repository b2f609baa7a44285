// services/award.go - Award coordinator: the single choke point for unlocks
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"fitforge/models"

	"gorm.io/gorm"
)

// Notifier delivers user-facing unlock notifications. Best-effort: the award
// path never blocks or fails on it.
type Notifier interface {
	NotifyAchievement(userID uint, name, description string, xpReward int)
}

// AwardCoordinator performs the actual unlock. Safe to call any number of
// times for the same (user, achievement) pair: the composite unique index on
// user_achievements is the concurrency control, not an application lock.
type AwardCoordinator struct {
	db       *gorm.DB
	notifier Notifier
}

func NewAwardCoordinator(db *gorm.DB, notifier Notifier) *AwardCoordinator {
	return &AwardCoordinator{db: db, notifier: notifier}
}

// Award unlocks one achievement for one user. Returns true only for the call
// that actually inserted the unlock row; duplicate invocations (including
// racing ones) return false with no error and mutate nothing further.
func (a *AwardCoordinator) Award(ctx context.Context, userID uint, ach models.Achievement) (bool, error) {
	unlock := models.UserAchievement{
		UserID:        userID,
		AchievementID: ach.ID,
		UnlockedAt:    time.Now().UTC(),
	}

	err := a.db.WithContext(ctx).Create(&unlock).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Already awarded by a previous or concurrent run.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	// Atomic single-statement increments: commutative, so concurrent awards
	// for different achievements cannot lose updates.
	err = a.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"xp":                 gorm.Expr("xp + ?", ach.XPReward),
			"total_xp":           gorm.Expr("total_xp + ?", ach.XPReward),
			"achievements_count": gorm.Expr("achievements_count + 1"),
			"achievement_points": gorm.Expr("achievement_points + ?", ach.Points),
		}).Error
	if err != nil {
		// The unlock row exists, so the award stands; the counters heal on
		// the next consistency pass.
		log.Printf("Failed to apply award rewards for user %d achievement %d: %v", userID, ach.ID, err)
	}

	if a.notifier != nil {
		a.notifier.NotifyAchievement(userID, ach.Name, ach.Description, ach.XPReward)
	}

	return true, nil
}
