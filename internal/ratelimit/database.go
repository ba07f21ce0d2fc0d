package ratelimit

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DBStore keeps counters in the rate_limit_entries table so limits hold
// across instances. The whole check-and-increment is one upsert: concurrent
// callers for the same key serialize on the row.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

func (s *DBStore) Allow(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	now := s.now().UTC()
	cutoff := now.Add(-window)

	var count int
	err := s.db.WithContext(ctx).Raw(`
		INSERT INTO rate_limit_entries ("key", count, window_start)
		VALUES (?, 1, ?)
		ON CONFLICT ("key") DO UPDATE SET
			count = CASE WHEN rate_limit_entries.window_start <= ? THEN 1 ELSE rate_limit_entries.count + 1 END,
			window_start = CASE WHEN rate_limit_entries.window_start <= ? THEN ? ELSE rate_limit_entries.window_start END
		RETURNING count`,
		key, now, cutoff, cutoff, now,
	).Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("rate limit upsert failed: %w", err)
	}

	return count <= maxRequests, nil
}

// Sweep deletes entries whose window expired before cutoff.
func (s *DBStore) Sweep(ctx context.Context, olderThan time.Duration) error {
	cutoff := s.now().UTC().Add(-olderThan)
	return s.db.WithContext(ctx).Exec(`DELETE FROM rate_limit_entries WHERE window_start < ?`, cutoff).Error
}
