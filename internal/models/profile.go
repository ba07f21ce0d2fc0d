package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the account record for a directory user. Role gates the admin
// moderation surface and the submission counters back the daily quota.
type Profile struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email              string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password           string         `gorm:"not null" json:"-"`
	DisplayName        string         `gorm:"size:50" json:"display_name"`
	AvatarURL          string         `gorm:"size:500" json:"avatar_url"`
	Role               string         `gorm:"size:20;default:'user'" json:"role"`
	SubmissionsToday   int            `gorm:"default:0" json:"-"`
	LastSubmissionDate string         `gorm:"size:10" json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
