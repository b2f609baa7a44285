// services/checkers.go - Achievement checker pipeline
//
// Each checker is an independent strategy covering one achievement family.
// Adding a family means implementing Checker and registering it; nothing
// dispatches on category names. One evaluation run launches every checker
// concurrently and settles them all: a failing checker is logged and never
// aborts its siblings.
package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"fitforge/models"

	"gorm.io/gorm"
)

// Checker evaluates one achievement family for one user. Implementations
// call the progress tracker (and through it the award coordinator) for any
// candidate whose condition is newly satisfied. unlocked is a read-only set
// of already-awarded achievement IDs.
type Checker interface {
	Name() string
	Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error
}

// CheckerPipeline fans activity events out to all registered checkers.
type CheckerPipeline struct {
	db       *gorm.DB
	cache    *AchievementCache
	checkers []Checker
}

func NewCheckerPipeline(db *gorm.DB, cache *AchievementCache) *CheckerPipeline {
	return &CheckerPipeline{db: db, cache: cache}
}

// Register adds a checker to the pipeline.
func (p *CheckerPipeline) Register(c Checker) {
	p.checkers = append(p.checkers, c)
}

// DefaultCheckers builds the full checker set.
func DefaultCheckers(db *gorm.DB, tracker *ProgressTracker) []Checker {
	return []Checker{
		&CountChecker{db: db, tracker: tracker},
		&WeeklyChecker{db: db, tracker: tracker},
		&VarietyChecker{db: db, tracker: tracker},
		&ExerciseTypeChecker{db: db, tracker: tracker},
		&PowerDayChecker{db: db, tracker: tracker},
		&LevelChecker{db: db, tracker: tracker},
	}
}

// Run executes every registered checker concurrently and waits for all of
// them. Per-checker failures are collected and logged; Run itself only fails
// when the candidate set or unlocked set cannot be loaded at all.
func (p *CheckerPipeline) Run(ctx context.Context, userID uint) error {
	candidates, err := p.cache.Get(ctx)
	if err != nil {
		return fmt.Errorf("load achievement definitions: %w", err)
	}

	var unlockedIDs []uint
	if err := p.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).Pluck("achievement_id", &unlockedIDs).Error; err != nil {
		return fmt.Errorf("load unlocked achievements: %w", err)
	}
	unlocked := make(map[uint]bool, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = true
	}

	errs := make([]error, len(p.checkers))
	var wg sync.WaitGroup
	for i, c := range p.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("checker %s panicked: %v", c.Name(), r)
				}
			}()
			errs[i] = c.Check(ctx, userID, unlocked, candidates)
		}(i, c)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			log.Printf("Checker %s failed for user %d: %v", p.checkers[i].Name(), userID, err)
		}
	}
	return nil
}

// CountChecker compares lifetime aggregate counters (total workouts, manual
// workouts) against count-based requirements.
type CountChecker struct {
	db      *gorm.DB
	tracker *ProgressTracker
}

func (c *CountChecker) Name() string { return "count" }

func (c *CountChecker) Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error {
	var user models.User
	if err := c.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}

	for _, ach := range candidates {
		if unlocked[ach.ID] {
			continue
		}
		if _, ok := ach.RequirementInt("workouts_count"); ok {
			if _, err := c.tracker.UpdateProgress(ctx, userID, ach, user.WorkoutsCount, UpdateOptions{CheckCompletion: true}); err != nil {
				return err
			}
		}
		if _, ok := ach.RequirementInt("manual_workouts_count"); ok {
			if _, err := c.tracker.UpdateProgress(ctx, userID, ach, user.ManualWorkoutsCount, UpdateOptions{CheckCompletion: true}); err != nil {
				return err
			}
		}
	}
	return nil
}

// LevelChecker compares the user's current level to level_required.
type LevelChecker struct {
	db      *gorm.DB
	tracker *ProgressTracker
}

func (c *LevelChecker) Name() string { return "level" }

func (c *LevelChecker) Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error {
	var user models.User
	if err := c.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return err
	}

	for _, ach := range candidates {
		if unlocked[ach.ID] {
			continue
		}
		if _, ok := ach.RequirementInt("level_required"); !ok {
			continue
		}
		if _, err := c.tracker.UpdateProgress(ctx, userID, ach, user.Level, UpdateOptions{CheckCompletion: true}); err != nil {
			return err
		}
	}
	return nil
}

// PowerDayChecker sums power-day log rows plus manual workouts flagged as
// power days against power_days requirements.
type PowerDayChecker struct {
	db      *gorm.DB
	tracker *ProgressTracker
}

func (c *PowerDayChecker) Name() string { return "power_day" }

func (c *PowerDayChecker) Check(ctx context.Context, userID uint, unlocked map[uint]bool, candidates []models.Achievement) error {
	relevant := filterByRequirement(candidates, unlocked, "power_days")
	if len(relevant) == 0 {
		return nil
	}

	db := c.db.WithContext(ctx)
	var logged, manual int64
	if err := db.Model(&models.PowerDayLog{}).Where("user_id = ?", userID).Count(&logged).Error; err != nil {
		return err
	}
	if err := db.Model(&models.ManualWorkout{}).Where("user_id = ? AND is_power_day = ?", userID, true).Count(&manual).Error; err != nil {
		return err
	}
	total := int(logged + manual)

	for _, ach := range relevant {
		if _, err := c.tracker.UpdateProgress(ctx, userID, ach, total, UpdateOptions{CheckCompletion: true}); err != nil {
			return err
		}
	}
	return nil
}

// filterByRequirement keeps candidates that are still locked and carry the
// given requirement key.
func filterByRequirement(candidates []models.Achievement, unlocked map[uint]bool, key string) []models.Achievement {
	var out []models.Achievement
	for _, ach := range candidates {
		if unlocked[ach.ID] {
			continue
		}
		if _, ok := ach.RequirementInt(key); ok {
			out = append(out, ach)
		}
	}
	return out
}
