// progression/scoring.go - Pure XP scoring. No I/O: everything here must be
// callable from tests without a database.
package progression

import (
	"errors"
	"math"
)

// Scoring constants. Tuned so a typical 45-minute session lands around
// 150-250 XP before bonuses.
const (
	BaseExerciseXP        = 10
	BaseSetXP             = 2
	MaxXPContributingSets = 20
	PRBonusXP             = 25
	ManualWorkoutBaseXP   = 50
	PowerDayBonusXP       = 25
	MaxActivityXP         = 500
	MaxPowerDayActivityXP = 750
	StreakPlateauDays     = 14
	StreakPerDayBonus     = 0.02
)

// difficultyMultipliers is monotonic increasing with tier. Unknown tiers
// fall back to 1.0 rather than failing the whole computation.
var difficultyMultipliers = map[string]float64{
	"beginner":     1.0,
	"intermediate": 1.25,
	"advanced":     1.5,
}

var ErrInvalidActivity = errors.New("activity has negative duration, exercise or set counts")

// WorkoutInput carries everything the formula needs for one tracked workout.
type WorkoutInput struct {
	DurationMinutes   int
	ExerciseCount     int
	TotalSets         int
	Difficulty        string
	StreakDays        int
	HasPersonalRecord bool
	IsPowerDay        bool
	Class             string // user's character class, "" for none
	ActivityType      string // dominant activity type, keys the class passive
}

// ManualWorkoutInput is the reduced input for self-reported activity.
type ManualWorkoutInput struct {
	DurationMinutes int
	IsPowerDay      bool
	Class           string
	ActivityType    string
}

// Breakdown itemizes where the XP came from, for API responses.
type Breakdown struct {
	TimeXP           int     `json:"time_xp"`
	ExerciseXP       int     `json:"exercise_xp"`
	SetXP            int     `json:"set_xp"`
	BaseXP           int     `json:"base_xp"`
	StreakMultiplier float64 `json:"streak_multiplier"`
	PRBonus          int     `json:"pr_bonus"`
	ClassBonus       int     `json:"class_bonus"`
	Capped           bool    `json:"capped"`
}

// Result is the outcome of one scoring call.
type Result struct {
	TotalXP   int       `json:"total_xp"`
	Breakdown Breakdown `json:"breakdown"`
}

// ComputeWorkoutXP scores a completed tracked workout. Deterministic: the
// same input always produces the same TotalXP.
func ComputeWorkoutXP(in WorkoutInput) (Result, error) {
	if in.DurationMinutes < 0 || in.ExerciseCount < 0 || in.TotalSets < 0 {
		return Result{}, ErrInvalidActivity
	}

	timeXP := timeXPFor(in.DurationMinutes)
	exerciseXP := in.ExerciseCount * BaseExerciseXP

	contributingSets := in.TotalSets
	if contributingSets > MaxXPContributingSets {
		contributingSets = MaxXPContributingSets
	}
	setXP := contributingSets * BaseSetXP

	baseXP := int(math.Round(float64(timeXP+exerciseXP+setXP) * DifficultyMultiplier(in.Difficulty)))

	streakMult := StreakMultiplier(in.StreakDays)

	prBonus := 0
	if in.HasPersonalRecord {
		prBonus = PRBonusXP
	}

	classBonus := int(math.Round(float64(baseXP) * ClassBonusPercentage(in.Class, in.ActivityType)))

	total := int(math.Round(float64(baseXP)*streakMult)) + prBonus + classBonus

	capped := false
	if ceiling := activityCeiling(in.IsPowerDay); total > ceiling {
		total = ceiling
		capped = true
	}

	return Result{
		TotalXP: total,
		Breakdown: Breakdown{
			TimeXP:           timeXP,
			ExerciseXP:       exerciseXP,
			SetXP:            setXP,
			BaseXP:           baseXP,
			StreakMultiplier: streakMult,
			PRBonus:          prBonus,
			ClassBonus:       classBonus,
			Capped:           capped,
		},
	}, nil
}

// ComputeManualWorkoutXP scores a self-reported workout: flat base, plus the
// power-day flat bonus, plus the class bonus computed the same percentage way.
func ComputeManualWorkoutXP(in ManualWorkoutInput) (Result, error) {
	if in.DurationMinutes < 0 {
		return Result{}, ErrInvalidActivity
	}

	baseXP := ManualWorkoutBaseXP
	powerBonus := 0
	if in.IsPowerDay {
		powerBonus = PowerDayBonusXP
	}
	classBonus := int(math.Round(float64(baseXP) * ClassBonusPercentage(in.Class, in.ActivityType)))

	total := baseXP + powerBonus + classBonus
	capped := false
	if ceiling := activityCeiling(in.IsPowerDay); total > ceiling {
		total = ceiling
		capped = true
	}

	return Result{
		TotalXP: total,
		Breakdown: Breakdown{
			BaseXP:           baseXP,
			StreakMultiplier: 1,
			PRBonus:          powerBonus,
			ClassBonus:       classBonus,
			Capped:           capped,
		},
	}, nil
}

// timeXPFor rewards time sub-linearly so long sessions see diminishing
// returns: round(10 * sqrt(minutes)).
func timeXPFor(minutes int) int {
	return int(math.Round(10 * math.Sqrt(float64(minutes))))
}

// DifficultyMultiplier returns the tier multiplier, 1.0 for unknown tiers.
func DifficultyMultiplier(difficulty string) float64 {
	if m, ok := difficultyMultipliers[difficulty]; ok {
		return m
	}
	return 1.0
}

// StreakMultiplier grows 2% per consecutive day and plateaus at day 14.
func StreakMultiplier(streakDays int) float64 {
	if streakDays < 0 {
		streakDays = 0
	}
	if streakDays > StreakPlateauDays {
		streakDays = StreakPlateauDays
	}
	return 1 + float64(streakDays)*StreakPerDayBonus
}

func activityCeiling(isPowerDay bool) int {
	if isPowerDay {
		return MaxPowerDayActivityXP
	}
	return MaxActivityXP
}

// XPForLevel is the XP needed to advance from level-1 to level.
func XPForLevel(level int) int {
	return int(100 * math.Pow(float64(level), 1.5))
}

// ApplyLevelUps consumes xp into level advances, returning the new level and
// the XP remaining inside it.
func ApplyLevelUps(level, xp int) (int, int) {
	for {
		needed := XPForLevel(level + 1)
		if xp < needed {
			return level, xp
		}
		level++
		xp -= needed
	}
}
