package models

import "time"

// RateLimitEntry backs the database rate-limiter store. One row per key;
// the window check-and-increment happens in a single atomic upsert.
type RateLimitEntry struct {
	Key         string    `gorm:"primaryKey;size:120" json:"key"`
	Count       int       `gorm:"not null;default:0" json:"count"`
	WindowStart time.Time `gorm:"not null" json:"window_start"`
}

func (RateLimitEntry) TableName() string { return "rate_limit_entries" }
