// services/progress_tracker.go - Achievement progress records
package services

import (
	"context"
	"errors"
	"time"

	"fitforge/models"

	"gorm.io/gorm"
)

// requirement keys recognized when deriving a target value, in lookup order.
var targetKeys = []string{
	"workouts_count",
	"manual_workouts_count",
	"workouts_in_week",
	"unique_exercise_types",
	"power_days",
	"level_required",
}

// ProgressTracker maintains per-(user, achievement) progress rows and
// detects threshold crossings.
type ProgressTracker struct {
	db      *gorm.DB
	awarder *AwardCoordinator
}

func NewProgressTracker(db *gorm.DB, awarder *AwardCoordinator) *ProgressTracker {
	return &ProgressTracker{db: db, awarder: awarder}
}

// UpdateOptions controls one UpdateProgress call.
type UpdateOptions struct {
	// Increment adds newValue to the stored value instead of taking the max.
	Increment bool
	// CheckCompletion delegates to the award coordinator when the target is
	// newly reached.
	CheckCompletion bool
}

// UpdateProgress records a new observation for one achievement. Progress
// never regresses: a stale smaller observation leaves the row unchanged.
// Returns true only when the achievement was completed AND awarded by this
// call.
func (t *ProgressTracker) UpdateProgress(ctx context.Context, userID uint, ach models.Achievement, newValue int, opts UpdateOptions) (bool, error) {
	db := t.db.WithContext(ctx)

	var row models.AchievementProgress
	err := db.Where("user_id = ? AND achievement_id = ?", userID, ach.ID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		target, ok := deriveTarget(ach)
		if !ok {
			return false, nil // no countable requirement, nothing to track
		}
		// Target frozen at first write; later definition changes ship as
		// new achievement IDs.
		row = models.AchievementProgress{
			UserID:        userID,
			AchievementID: ach.ID,
			TargetValue:   target,
		}
	} else if err != nil {
		return false, err
	}

	if row.IsComplete {
		return false, nil
	}

	updated := newValue
	if opts.Increment {
		updated = row.CurrentValue + newValue
	} else if updated < row.CurrentValue {
		updated = row.CurrentValue
	}
	if updated > row.TargetValue {
		updated = row.TargetValue
	}

	row.CurrentValue = updated
	row.IsComplete = updated >= row.TargetValue
	row.UpdatedAt = time.Now().UTC()

	if err := db.Save(&row).Error; err != nil {
		return false, err
	}

	if row.IsComplete && opts.CheckCompletion {
		return t.awarder.Award(ctx, userID, ach)
	}
	return false, nil
}

// deriveTarget pulls the countable threshold out of the requirements
// descriptor. Per-exercise-type requirements ("strength_workouts" etc.) are
// matched by suffix.
func deriveTarget(ach models.Achievement) (int, bool) {
	for _, key := range targetKeys {
		if n, ok := ach.RequirementInt(key); ok {
			return n, true
		}
	}
	for key := range ach.Requirements {
		if len(key) > len("_workouts") && key[len(key)-len("_workouts"):] == "_workouts" {
			if n, ok := ach.RequirementInt(key); ok {
				return n, true
			}
		}
	}
	return 0, false
}
