package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitforge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPipeline(t *testing.T, db *gorm.DB, notifier Notifier) *CheckerPipeline {
	t.Helper()
	cache := NewAchievementCache(db)
	tracker := NewProgressTracker(db, NewAwardCoordinator(db, notifier))
	pipeline := NewCheckerPipeline(db, cache)
	for _, c := range DefaultCheckers(db, tracker) {
		pipeline.Register(c)
	}
	return pipeline
}

func createWorkoutWithSets(t *testing.T, db *gorm.DB, userID uint, setTypes ...string) models.Workout {
	t.Helper()
	w := models.Workout{
		UserID:      userID,
		Name:        "session",
		CompletedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&w).Error)
	for i, st := range setTypes {
		set := models.WorkoutSet{
			WorkoutID:    w.ID,
			ExerciseName: "exercise",
			ExerciseType: st,
			Reps:         10,
			SetOrder:     i + 1,
		}
		require.NoError(t, db.Create(&set).Error)
	}
	return w
}

func unlockedCount(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.UserAchievement{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestCountChecker_AwardsAtThreshold(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "jay")
	seedAchievement(t, db, "First Steps", "workouts_count", 1, 50, 5)

	require.NoError(t, db.Model(user).Update("workouts_count", 1).Error)

	pipeline := newPipeline(t, db, nil)
	require.NoError(t, pipeline.Run(context.Background(), user.ID))

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

func TestLevelChecker(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "kim")
	seedAchievement(t, db, "Apprentice", "level_required", 5, 100, 10)

	pipeline := newPipeline(t, db, nil)
	ctx := context.Background()

	require.NoError(t, pipeline.Run(ctx, user.ID))
	assert.Equal(t, int64(0), unlockedCount(t, db, user.ID))

	require.NoError(t, db.Model(user).Update("level", 5).Error)
	require.NoError(t, pipeline.Run(ctx, user.ID))
	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

func TestExerciseTypeChecker_TieCountsForBothTypes(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lee")
	seedAchievement(t, db, "Heavy Lifter", "strength_workouts", 1, 100, 10)
	seedAchievement(t, db, "Bodyweight Master", "calisthenics_workouts", 1, 100, 10)

	// 2 strength sets + 2 calisthenics sets: the tie qualifies the workout
	// for both types.
	createWorkoutWithSets(t, db, user.ID,
		models.ExerciseTypeStrength, models.ExerciseTypeStrength,
		models.ExerciseTypeCalisthenics, models.ExerciseTypeCalisthenics)

	pipeline := newPipeline(t, db, nil)
	require.NoError(t, pipeline.Run(context.Background(), user.ID))

	assert.Equal(t, int64(2), unlockedCount(t, db, user.ID))
}

func TestExerciseTypeChecker_MinorityTypeDoesNotQualify(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "mia")
	seedAchievement(t, db, "Cardio Fan", "cardio_workouts", 1, 100, 10)

	// 3 strength vs 1 cardio: cardio is a strict minority.
	createWorkoutWithSets(t, db, user.ID,
		models.ExerciseTypeStrength, models.ExerciseTypeStrength,
		models.ExerciseTypeStrength, models.ExerciseTypeCardio)

	pipeline := newPipeline(t, db, nil)
	require.NoError(t, pipeline.Run(context.Background(), user.ID))

	assert.Equal(t, int64(0), unlockedCount(t, db, user.ID))
}

func TestExerciseTypeChecker_ManualExactMatch(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "noa")
	seedAchievement(t, db, "Cardio Fan", "cardio_workouts", 2, 100, 10)

	now := time.Now().UTC()
	for i := 0; i < 2; i++ {
		m := models.ManualWorkout{
			UserID:          user.ID,
			ActivityType:    models.ExerciseTypeCardio,
			DurationMinutes: 30,
			LoggedAt:        now,
		}
		require.NoError(t, db.Create(&m).Error)
	}

	pipeline := newPipeline(t, db, nil)
	require.NoError(t, pipeline.Run(context.Background(), user.ID))

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

func TestWeeklyChecker_IgnoresOldActivity(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ola")
	seedAchievement(t, db, "Full Week", "workouts_in_week", 2, 150, 15)

	// One workout inside the window, one well outside it.
	createWorkoutWithSets(t, db, user.ID, models.ExerciseTypeStrength)
	old := models.Workout{
		UserID:      user.ID,
		Name:        "ancient",
		CompletedAt: time.Now().UTC().AddDate(0, 0, -30),
	}
	require.NoError(t, db.Create(&old).Error)

	pipeline := newPipeline(t, db, nil)
	ctx := context.Background()
	require.NoError(t, pipeline.Run(ctx, user.ID))
	assert.Equal(t, int64(0), unlockedCount(t, db, user.ID))

	// A second recent workout crosses the threshold.
	createWorkoutWithSets(t, db, user.ID, models.ExerciseTypeCardio)
	require.NoError(t, pipeline.Run(ctx, user.ID))
	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

func TestVarietyChecker_UnionOfTrackedAndManual(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "pia")
	seedAchievement(t, db, "Well Rounded", "unique_exercise_types", 3, 200, 20)

	createWorkoutWithSets(t, db, user.ID,
		models.ExerciseTypeStrength, models.ExerciseTypeCardio)
	m := models.ManualWorkout{
		UserID:          user.ID,
		ActivityType:    models.ExerciseTypeFlexibility,
		DurationMinutes: 20,
		LoggedAt:        time.Now().UTC(),
	}
	require.NoError(t, db.Create(&m).Error)

	pipeline := newPipeline(t, db, nil)
	require.NoError(t, pipeline.Run(context.Background(), user.ID))

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

func TestPowerDayChecker(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "quin")
	seedAchievement(t, db, "Power Surge", "power_days", 2, 150, 15)

	require.NoError(t, db.Create(&models.PowerDayLog{UserID: user.ID, Date: "2026-08-30"}).Error)
	m := models.ManualWorkout{
		UserID:          user.ID,
		ActivityType:    models.ExerciseTypeSports,
		DurationMinutes: 60,
		IsPowerDay:      true,
		LoggedAt:        time.Now().UTC(),
	}
	require.NoError(t, db.Create(&m).Error)

	pipeline := newPipeline(t, db, nil)
	require.NoError(t, pipeline.Run(context.Background(), user.ID))

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

// failingChecker always errors; panickyChecker always panics. The pipeline
// must isolate both.
type failingChecker struct{}

func (failingChecker) Name() string { return "failing" }
func (failingChecker) Check(context.Context, uint, map[uint]bool, []models.Achievement) error {
	return errors.New("boom")
}

type panickyChecker struct{}

func (panickyChecker) Name() string { return "panicky" }
func (panickyChecker) Check(context.Context, uint, map[uint]bool, []models.Achievement) error {
	panic("unexpected")
}

func TestPipeline_IsolatesFailingCheckers(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "rex")
	seedAchievement(t, db, "First Steps", "workouts_count", 1, 50, 5)
	require.NoError(t, db.Model(user).Update("workouts_count", 1).Error)

	pipeline := newPipeline(t, db, nil)
	pipeline.Register(failingChecker{})
	pipeline.Register(panickyChecker{})

	// Run still succeeds and the healthy checkers still award.
	require.NoError(t, pipeline.Run(context.Background(), user.ID))
	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
}

func TestPipeline_RerunDoesNotDuplicate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "sam")
	seedAchievement(t, db, "First Steps", "workouts_count", 1, 50, 5)
	require.NoError(t, db.Model(user).Update("workouts_count", 1).Error)

	spy := &spyNotifier{}
	pipeline := newPipeline(t, db, spy)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, pipeline.Run(ctx, user.ID))
	}

	assert.Equal(t, int64(1), unlockedCount(t, db, user.ID))
	assert.Equal(t, 1, spy.count())
}
