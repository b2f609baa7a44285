package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fitforge/models"
	"fitforge/progression"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProgressionService(t *testing.T, db *gorm.DB, notifier Notifier) *ProgressionService {
	t.Helper()
	cache := NewAchievementCache(db)
	tracker := NewProgressTracker(db, NewAwardCoordinator(db, notifier))
	pipeline := NewCheckerPipeline(db, cache)
	for _, c := range DefaultCheckers(db, tracker) {
		pipeline.Register(c)
	}
	return NewProgressionService(db, pipeline)
}

func sampleSubmission() WorkoutSubmission {
	sets := make([]SetInput, 0, 15)
	for i := 0; i < 15; i++ {
		sets = append(sets, SetInput{
			ExerciseName: fmt.Sprintf("exercise-%d", i%5),
			ExerciseType: models.ExerciseTypeStrength,
			Reps:         10,
		})
	}
	return WorkoutSubmission{
		Name:            "push day",
		DurationMinutes: 45,
		Difficulty:      models.DifficultyIntermediate,
		Sets:            sets,
	}
}

func TestOnActivityCompleted_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "eli")
	seedAchievement(t, db, "First Steps", "workouts_count", 1, 50, 5)

	spy := &spyNotifier{}
	svc := newProgressionService(t, db, spy)
	ctx := context.Background()

	result, err := svc.OnActivityCompleted(ctx, user.ID, sampleSubmission())
	require.NoError(t, err)

	assert.Greater(t, result.XPEarned, 0)
	assert.Equal(t, 1, result.StreakDays)
	assert.Equal(t, 1, result.Level)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 1, fresh.WorkoutsCount)
	assert.Equal(t, 1, fresh.StreakDays)
	// The workout XP plus the First Steps award.
	assert.Equal(t, result.XPEarned+50, fresh.XP)

	var workout models.Workout
	require.NoError(t, db.Preload("Sets").Where("user_id = ?", user.ID).First(&workout).Error)
	assert.Equal(t, result.XPEarned, workout.XPEarned)
	assert.Len(t, workout.Sets, 15)

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
	assert.Equal(t, 1, spy.count())

	// A second workout the same day: streak unchanged, no re-award, no
	// duplicate notification.
	result, err = svc.OnActivityCompleted(ctx, user.ID, sampleSubmission())
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)

	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 2, fresh.WorkoutsCount)
	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
	assert.Equal(t, 1, spy.count())
}

func TestOnActivityCompleted_StreakContinuesFromYesterday(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "fay")

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"last_workout_date": yesterday,
		"streak_days":       3,
	}).Error)

	svc := newProgressionService(t, db, nil)
	result, err := svc.OnActivityCompleted(context.Background(), user.ID, sampleSubmission())
	require.NoError(t, err)
	assert.Equal(t, 4, result.StreakDays)
}

func TestOnActivityCompleted_StreakResetsAfterGap(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "gil")

	lastWeek := time.Now().UTC().AddDate(0, 0, -6)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"last_workout_date": lastWeek,
		"streak_days":       12,
		"best_streak":       12,
	}).Error)

	svc := newProgressionService(t, db, nil)
	result, err := svc.OnActivityCompleted(context.Background(), user.ID, sampleSubmission())
	require.NoError(t, err)
	assert.Equal(t, 1, result.StreakDays)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 12, fresh.BestStreak)
}

func TestOnActivityCompleted_LevelUp(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "hal")

	// Park the user just under the level 2 threshold.
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"xp":       progression.XPForLevel(2) - 10,
		"total_xp": progression.XPForLevel(2) - 10,
	}).Error)

	svc := newProgressionService(t, db, nil)
	result, err := svc.OnActivityCompleted(context.Background(), user.ID, sampleSubmission())
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.GreaterOrEqual(t, result.Level, 2)
}

func TestOnActivityCompleted_PowerDayLoggedOnce(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ivy")
	svc := newProgressionService(t, db, nil)
	ctx := context.Background()

	sub := sampleSubmission()
	sub.IsPowerDay = true

	_, err := svc.OnActivityCompleted(ctx, user.ID, sub)
	require.NoError(t, err)
	_, err = svc.OnActivityCompleted(ctx, user.ID, sub)
	require.NoError(t, err)

	var logs int64
	db.Model(&models.PowerDayLog{}).Where("user_id = ?", user.ID).Count(&logs)
	assert.Equal(t, int64(1), logs)
}

func TestOnActivityCompleted_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := newProgressionService(t, db, nil)

	_, err := svc.OnActivityCompleted(context.Background(), 9999, sampleSubmission())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestOnActivityCompleted_RejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "jon")
	svc := newProgressionService(t, db, nil)

	sub := sampleSubmission()
	sub.DurationMinutes = -5
	_, err := svc.OnActivityCompleted(context.Background(), user.ID, sub)
	assert.ErrorIs(t, err, progression.ErrInvalidActivity)
}

func TestOnManualWorkoutLogged(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "kai")
	seedAchievement(t, db, "Honest Effort", "manual_workouts_count", 1, 50, 5)

	spy := &spyNotifier{}
	svc := newProgressionService(t, db, spy)

	result, err := svc.OnManualWorkoutLogged(context.Background(), user.ID, ManualWorkoutSubmission{
		ActivityType:    models.ExerciseTypeCardio,
		Description:     "evening run",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, progression.ManualWorkoutBaseXP, result.XPEarned)

	var fresh models.User
	require.NoError(t, db.First(&fresh, user.ID).Error)
	assert.Equal(t, 1, fresh.ManualWorkoutsCount)

	var manual models.ManualWorkout
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&manual).Error)
	assert.Equal(t, models.ExerciseTypeCardio, manual.ActivityType)

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
	assert.Equal(t, 1, spy.count())
}

func TestOnManualWorkoutLogged_RequiresActivityType(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lou")
	svc := newProgressionService(t, db, nil)

	_, err := svc.OnManualWorkoutLogged(context.Background(), user.ID, ManualWorkoutSubmission{
		DurationMinutes: 30,
	})
	assert.Error(t, err)
}

func TestOnManualWorkoutLogged_ClassBonus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "mo")
	require.NoError(t, db.Model(user).Update("class", progression.ClassRanger).Error)

	svc := newProgressionService(t, db, nil)
	result, err := svc.OnManualWorkoutLogged(context.Background(), user.ID, ManualWorkoutSubmission{
		ActivityType:    models.ExerciseTypeCardio,
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	// 15% of the manual base, rounded.
	assert.Equal(t, progression.ManualWorkoutBaseXP+8, result.XPEarned)
}
