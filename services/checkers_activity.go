// services/checkers_activity.go - Checkers that scan activity history
package services

import (
	"context"
	"strings"
	"time"

	"fitforge/models"

	"gorm.io/gorm"
)

// weekWindow returns the rolling 7-day window ending now (UTC).
func weekWindow() time.Time {
	return time.Now().UTC().AddDate(0, 0, -7)
}

// WeeklyChecker compares the rolling 7-day workout count (tracked + manual
// combined) against workouts_in_week requirements.
type WeeklyChecker struct {
	db      *gorm.DB
	tracker *ProgressTracker
}

func (c *WeeklyChecker) Name() string { return "weekly" }

func (c *WeeklyChecker) Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error {
	relevant := filterByRequirement(candidates, unlocked, "workouts_in_week")
	if len(relevant) == 0 {
		return nil
	}

	db := c.db.WithContext(ctx)
	since := weekWindow()

	var tracked, manual int64
	if err := db.Model(&models.Workout{}).
		Where("user_id = ? AND completed_at >= ?", userID, since).Count(&tracked).Error; err != nil {
		return err
	}
	if err := db.Model(&models.ManualWorkout{}).
		Where("user_id = ? AND logged_at >= ?", userID, since).Count(&manual).Error; err != nil {
		return err
	}
	weekCount := int(tracked + manual)

	for _, ach := range relevant {
		if _, err := c.tracker.UpdateProgress(ctx, userID, ach, weekCount, UpdateOptions{CheckCompletion: true}); err != nil {
			return err
		}
	}
	return nil
}

// VarietyChecker computes the cardinality of distinct exercise types
// performed this week: the union of tracked-workout set types and manual
// activity types, compared against unique_exercise_types.
type VarietyChecker struct {
	db      *gorm.DB
	tracker *ProgressTracker
}

func (c *VarietyChecker) Name() string { return "variety" }

func (c *VarietyChecker) Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error {
	relevant := filterByRequirement(candidates, unlocked, "unique_exercise_types")
	if len(relevant) == 0 {
		return nil
	}

	db := c.db.WithContext(ctx)
	since := weekWindow()

	var setTypes []string
	if err := db.Model(&models.WorkoutSet{}).
		Joins("JOIN workouts ON workouts.id = workout_sets.workout_id").
		Where("workouts.user_id = ? AND workouts.completed_at >= ?", userID, since).
		Distinct("workout_sets.exercise_type").
		Pluck("workout_sets.exercise_type", &setTypes).Error; err != nil {
		return err
	}

	var manualTypes []string
	if err := db.Model(&models.ManualWorkout{}).
		Where("user_id = ? AND logged_at >= ?", userID, since).
		Distinct("activity_type").
		Pluck("activity_type", &manualTypes).Error; err != nil {
		return err
	}

	union := make(map[string]bool)
	for _, t := range setTypes {
		if t != "" {
			union[t] = true
		}
	}
	for _, t := range manualTypes {
		if t != "" {
			union[t] = true
		}
	}

	for _, ach := range relevant {
		if _, err := c.tracker.UpdateProgress(ctx, userID, ach, len(union), UpdateOptions{CheckCompletion: true}); err != nil {
			return err
		}
	}
	return nil
}

// ExerciseTypeChecker counts workouts dominated by a specific exercise type
// ("strength_workouts", "calisthenics_workouts", ...). A tracked workout's
// dominant type is decided by majority vote across its sets; a tie counts in
// favor of the type being checked, so a 2-strength / 2-calisthenics workout
// counts toward both. Manual workouts qualify on an exact activity-type
// match.
type ExerciseTypeChecker struct {
	db      *gorm.DB
	tracker *ProgressTracker
}

func (c *ExerciseTypeChecker) Name() string { return "exercise_type" }

const typeRequirementSuffix = "_workouts"

func (c *ExerciseTypeChecker) Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error {
	// Collect the exercise types any locked candidate asks about.
	typeAchievements := make(map[string][]models.Achievement)
	for _, ach := range candidates {
		if unlocked[ach.ID] {
			continue
		}
		for key := range ach.Requirements {
			exerciseType, ok := strings.CutSuffix(key, typeRequirementSuffix)
			if !ok || exerciseType == "" {
				continue
			}
			// "manual_workouts_count" and similar never reach here; only
			// bare "<type>_workouts" keys do.
			typeAchievements[exerciseType] = append(typeAchievements[exerciseType], ach)
		}
	}
	if len(typeAchievements) == 0 {
		return nil
	}

	setCounts, err := c.loadSetTypeCounts(ctx, userID)
	if err != nil {
		return err
	}

	db := c.db.WithContext(ctx)
	for exerciseType, achs := range typeAchievements {
		qualifying := 0
		for _, counts := range setCounts {
			if dominatesOrTies(counts, exerciseType) {
				qualifying++
			}
		}

		var manual int64
		if err := db.Model(&models.ManualWorkout{}).
			Where("user_id = ? AND activity_type = ?", userID, exerciseType).
			Count(&manual).Error; err != nil {
			return err
		}
		total := qualifying + int(manual)

		for _, ach := range achs {
			if _, err := c.tracker.UpdateProgress(ctx, userID, ach, total, UpdateOptions{CheckCompletion: true}); err != nil {
				return err
			}
		}
	}
	return nil
}

// loadSetTypeCounts aggregates per-workout set counts by exercise type.
func (c *ExerciseTypeChecker) loadSetTypeCounts(ctx context.Context, userID uint) (map[uint]map[string]int, error) {
	type row struct {
		WorkoutID    uint
		ExerciseType string
		Cnt          int
	}
	var rows []row
	err := c.db.WithContext(ctx).Model(&models.WorkoutSet{}).
		Select("workout_sets.workout_id as workout_id, workout_sets.exercise_type as exercise_type, COUNT(*) as cnt").
		Joins("JOIN workouts ON workouts.id = workout_sets.workout_id").
		Where("workouts.user_id = ?", userID).
		Group("workout_sets.workout_id, workout_sets.exercise_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]map[string]int)
	for _, r := range rows {
		if counts[r.WorkoutID] == nil {
			counts[r.WorkoutID] = make(map[string]int)
		}
		counts[r.WorkoutID][r.ExerciseType] = r.Cnt
	}
	return counts, nil
}

// dominatesOrTies reports whether exerciseType has at least as many sets as
// every other type in the workout. Ties count as a match: that is the
// documented policy, not an accident.
func dominatesOrTies(counts map[string]int, exerciseType string) bool {
	own := counts[exerciseType]
	if own == 0 {
		return false
	}
	for _, n := range counts {
		if n > own {
			return false
		}
	}
	return true
}
