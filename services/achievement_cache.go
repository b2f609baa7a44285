// services/achievement_cache.go - Process-wide achievement definition cache
package services

import (
	"context"
	"sync"

	"fitforge/models"

	"gorm.io/gorm"
)

// AchievementCache holds the immutable achievement definitions. Loaded once
// on first Get, read-only afterwards; Invalidate forces a reload on the next
// Get (used after admin seeds or definition rollouts, never mid-mutation).
type AchievementCache struct {
	db *gorm.DB

	mu     sync.RWMutex
	defs   []models.Achievement
	loaded bool
}

func NewAchievementCache(db *gorm.DB) *AchievementCache {
	return &AchievementCache{db: db}
}

// Get returns all achievement definitions, loading them on first use.
func (c *AchievementCache) Get(ctx context.Context) ([]models.Achievement, error) {
	c.mu.RLock()
	if c.loaded {
		defs := c.defs
		c.mu.RUnlock()
		return defs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.defs, nil
	}

	var defs []models.Achievement
	if err := c.db.WithContext(ctx).Order("id").Find(&defs).Error; err != nil {
		return nil, err
	}
	c.defs = defs
	c.loaded = true
	return defs, nil
}

// Invalidate clears the cache. The slice handed out by Get is never mutated,
// so in-flight readers keep a consistent snapshot.
func (c *AchievementCache) Invalidate() {
	c.mu.Lock()
	c.defs = nil
	c.loaded = false
	c.mu.Unlock()
}
