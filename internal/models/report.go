package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report reason taxonomy.
var ReportReasons = []string{"spam", "misleading", "broken_links", "duplicate", "inappropriate", "other"}

const (
	ReportPending   = "pending"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// Report is a user-submitted moderation flag on a listing.
type Report struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppID      uuid.UUID `gorm:"type:uuid;not null;index" json:"app_id"`
	ReporterID uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	Reason     string    `gorm:"not null;size:30" json:"reason"`
	Details    string    `gorm:"not null;size:500" json:"details"`
	Status     string    `gorm:"not null;default:'pending';size:20;index" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
