package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voicenative/backend/internal/models"
)

func newStoreDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RateLimitEntry{}))
	return db
}

func TestDBStoreCountsPerKey(t *testing.T) {
	store := NewDBStore(newStoreDB(t))
	ctx := context.Background()

	const max = 3
	window := 10 * time.Minute

	for i := 0; i < max; i++ {
		allowed, err := store.Allow(ctx, "submit:u1", max, window)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := store.Allow(ctx, "submit:u1", max, window)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = store.Allow(ctx, "submit:u2", max, window)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDBStoreWindowReset(t *testing.T) {
	db := newStoreDB(t)
	store := NewDBStore(db)
	ctx := context.Background()

	window := time.Minute
	allowed, err := store.Allow(ctx, "k", 1, window)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = store.Allow(ctx, "k", 1, window)
	require.NoError(t, err)
	require.False(t, allowed)

	// Age the stored window past expiry; the next call starts a fresh one
	require.NoError(t, db.Model(&models.RateLimitEntry{}).
		Where(`"key" = ?`, "k").
		Update("window_start", time.Now().Add(-2*window)).Error)

	allowed, err = store.Allow(ctx, "k", 1, window)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestDBStoreSweep(t *testing.T) {
	db := newStoreDB(t)
	store := NewDBStore(db)
	ctx := context.Background()

	_, err := store.Allow(ctx, "old", 5, time.Minute)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.RateLimitEntry{}).
		Where(`"key" = ?`, "old").
		Update("window_start", time.Now().Add(-2*time.Hour)).Error)

	_, err = store.Allow(ctx, "fresh", 5, time.Minute)
	require.NoError(t, err)

	require.NoError(t, store.Sweep(ctx, time.Hour))

	var count int64
	db.Model(&models.RateLimitEntry{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
