// services/progression_service.go - Activity-completion orchestration
//
// This is the upstream entry point: a finished tracked workout or a logged
// manual workout flows through scoring, persistence, streak maintenance and
// the checker pipeline. The activity record itself is favored over
// gamification side effects: once the workout row is committed, a failing
// checker run is logged and the request still succeeds.
package services

import (
	"context"
	"errors"
	"log"
	"time"

	"fitforge/models"
	"fitforge/progression"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUserNotFound = errors.New("user not found")

// SetInput is one set of a tracked workout as submitted by the client.
type SetInput struct {
	ExerciseName string  `json:"exercise_name"`
	ExerciseType string  `json:"exercise_type"`
	Weight       float64 `json:"weight"`
	Reps         int     `json:"reps"`
}

// WorkoutSubmission is a completed tracked workout.
type WorkoutSubmission struct {
	Name              string     `json:"name"`
	DurationMinutes   int        `json:"duration_minutes"`
	Difficulty        string     `json:"difficulty"`
	IsPowerDay        bool       `json:"is_power_day"`
	HasPersonalRecord bool       `json:"has_personal_record"`
	Sets              []SetInput `json:"sets"`
}

// ManualWorkoutSubmission is a self-reported workout.
type ManualWorkoutSubmission struct {
	ActivityType    string `json:"activity_type"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	IsPowerDay      bool   `json:"is_power_day"`
}

// ActivityResult is returned to the handler layer after a completion.
type ActivityResult struct {
	XPEarned   int                   `json:"xp_earned"`
	Breakdown  progression.Breakdown `json:"breakdown"`
	Level      int                   `json:"level"`
	LeveledUp  bool                  `json:"leveled_up"`
	CurrentXP  int                   `json:"current_xp"`
	XPToNext   int                   `json:"xp_to_next_level"`
	StreakDays int                   `json:"streak_days"`
}

// ProgressionService wires the scoring engine, the store and the checker
// pipeline together.
type ProgressionService struct {
	db       *gorm.DB
	pipeline *CheckerPipeline
}

func NewProgressionService(db *gorm.DB, pipeline *CheckerPipeline) *ProgressionService {
	return &ProgressionService{db: db, pipeline: pipeline}
}

// OnActivityCompleted handles a finished tracked workout: score, persist,
// then fan out to the checkers.
func (s *ProgressionService) OnActivityCompleted(ctx context.Context, userID uint, sub WorkoutSubmission) (*ActivityResult, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	now := time.Now().UTC()
	streak := continuedStreak(&user, now)

	exerciseCount, dominantType := summarizeSets(sub.Sets)
	scored, err := progression.ComputeWorkoutXP(progression.WorkoutInput{
		DurationMinutes:   sub.DurationMinutes,
		ExerciseCount:     exerciseCount,
		TotalSets:         len(sub.Sets),
		Difficulty:        sub.Difficulty,
		StreakDays:        streak,
		HasPersonalRecord: sub.HasPersonalRecord,
		IsPowerDay:        sub.IsPowerDay,
		Class:             user.Class,
		ActivityType:      dominantType,
	})
	if err != nil {
		return nil, err
	}

	workout := models.Workout{
		UserID:            userID,
		Name:              sub.Name,
		DurationMinutes:   sub.DurationMinutes,
		Difficulty:        sub.Difficulty,
		IsPowerDay:        sub.IsPowerDay,
		HasPersonalRecord: sub.HasPersonalRecord,
		XPEarned:          scored.TotalXP,
		CompletedAt:       now,
	}
	for i, set := range sub.Sets {
		workout.Sets = append(workout.Sets, models.WorkoutSet{
			ExerciseName: set.ExerciseName,
			ExerciseType: set.ExerciseType,
			Weight:       set.Weight,
			Reps:         set.Reps,
			SetOrder:     i + 1,
		})
	}

	oldLevel := user.Level
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&workout).Error; err != nil {
			return err
		}

		user.WorkoutsCount++
		user.StreakDays = streak
		if streak > user.BestStreak {
			user.BestStreak = streak
		}
		user.LastWorkoutDate = &now
		user.XP += scored.TotalXP
		user.TotalXP += scored.TotalXP
		user.Level, user.XP = progression.ApplyLevelUps(user.Level, user.XP)

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		if sub.IsPowerDay {
			logPowerDay(tx, userID, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runCheckers(ctx, userID)

	return &ActivityResult{
		XPEarned:   scored.TotalXP,
		Breakdown:  scored.Breakdown,
		Level:      user.Level,
		LeveledUp:  user.Level > oldLevel,
		CurrentXP:  user.XP,
		XPToNext:   progression.XPForLevel(user.Level + 1),
		StreakDays: user.StreakDays,
	}, nil
}

// OnManualWorkoutLogged handles a self-reported workout through the same
// pipeline with the simpler manual scoring rule.
func (s *ProgressionService) OnManualWorkoutLogged(ctx context.Context, userID uint, sub ManualWorkoutSubmission) (*ActivityResult, error) {
	if sub.ActivityType == "" {
		return nil, errors.New("activity type is required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, ErrUserNotFound
	}

	now := time.Now().UTC()
	streak := continuedStreak(&user, now)

	scored, err := progression.ComputeManualWorkoutXP(progression.ManualWorkoutInput{
		DurationMinutes: sub.DurationMinutes,
		IsPowerDay:      sub.IsPowerDay,
		Class:           user.Class,
		ActivityType:    sub.ActivityType,
	})
	if err != nil {
		return nil, err
	}

	manual := models.ManualWorkout{
		UserID:          userID,
		ActivityType:    sub.ActivityType,
		Description:     sub.Description,
		DurationMinutes: sub.DurationMinutes,
		IsPowerDay:      sub.IsPowerDay,
		XPEarned:        scored.TotalXP,
		LoggedAt:        now,
	}

	oldLevel := user.Level
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&manual).Error; err != nil {
			return err
		}

		user.ManualWorkoutsCount++
		user.StreakDays = streak
		if streak > user.BestStreak {
			user.BestStreak = streak
		}
		user.LastWorkoutDate = &now
		user.XP += scored.TotalXP
		user.TotalXP += scored.TotalXP
		user.Level, user.XP = progression.ApplyLevelUps(user.Level, user.XP)

		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, err
	}

	s.runCheckers(ctx, userID)

	return &ActivityResult{
		XPEarned:   scored.TotalXP,
		Breakdown:  scored.Breakdown,
		Level:      user.Level,
		LeveledUp:  user.Level > oldLevel,
		CurrentXP:  user.XP,
		XPToNext:   progression.XPForLevel(user.Level + 1),
		StreakDays: user.StreakDays,
	}, nil
}

func (s *ProgressionService) runCheckers(ctx context.Context, userID uint) {
	if s.pipeline == nil {
		return
	}
	if err := s.pipeline.Run(ctx, userID); err != nil {
		// A missed unlock is recoverable by the next idempotent scan; the
		// activity record is already safe.
		log.Printf("Checker run failed for user %d: %v", userID, err)
	}
}

// continuedStreak computes the streak value as of a new activity at now:
// +1 when the last qualifying day was yesterday, unchanged for a second
// activity today, reset to 1 after a gap.
func continuedStreak(user *models.User, now time.Time) int {
	if user.LastWorkoutDate == nil {
		return 1
	}
	last := *user.LastWorkoutDate
	if sameUTCDate(last, now) {
		if user.StreakDays < 1 {
			return 1
		}
		return user.StreakDays
	}
	if sameUTCDate(last.AddDate(0, 0, 1), now) {
		return user.StreakDays + 1
	}
	return 1
}

// summarizeSets returns the distinct exercise count and the dominant
// exercise type. Most sets wins; an alphabetical tie-break keeps scoring
// deterministic. The per-type tie policy lives in the checker, not here.
func summarizeSets(sets []SetInput) (int, string) {
	exercises := make(map[string]bool)
	typeCounts := make(map[string]int)
	for _, s := range sets {
		if s.ExerciseName != "" {
			exercises[s.ExerciseName] = true
		}
		if s.ExerciseType != "" {
			typeCounts[s.ExerciseType]++
		}
	}

	dominant := ""
	best := 0
	for t, n := range typeCounts {
		if n > best || (n == best && (dominant == "" || t < dominant)) {
			dominant = t
			best = n
		}
	}
	return len(exercises), dominant
}

// logPowerDay inserts the per-day power-day marker. ON CONFLICT DO NOTHING
// keeps a second activation on the same date from aborting the surrounding
// transaction.
func logPowerDay(tx *gorm.DB, userID uint, now time.Time) {
	entry := models.PowerDayLog{
		UserID: userID,
		Date:   now.Format("2006-01-02"),
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		log.Printf("Failed to log power day for user %d: %v", userID, err)
	}
}
