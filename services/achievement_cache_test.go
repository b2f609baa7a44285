package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementCache_LoadsOnceUntilInvalidated(t *testing.T) {
	db := newTestDB(t)
	seedAchievement(t, db, "First Steps", "workouts_count", 1, 50, 5)

	cache := NewAchievementCache(db)
	ctx := context.Background()

	defs, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	// New rows are invisible until the cache is invalidated.
	seedAchievement(t, db, "Regular", "workouts_count", 10, 100, 10)

	defs, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, defs, 1)

	cache.Invalidate()
	defs, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestAchievementCache_ConcurrentGet(t *testing.T) {
	db := newTestDB(t)
	seedAchievement(t, db, "First Steps", "workouts_count", 1, 50, 5)

	cache := NewAchievementCache(db)
	ctx := context.Background()

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := cache.Get(ctx)
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
