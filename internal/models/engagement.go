package models

import (
	"time"

	"github.com/google/uuid"
)

// Upvote is a per-(user, listing) membership record toggled by the owner of
// the vote. The unique index makes double-insert a constraint violation.
type Upvote struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_user_app" json:"user_id"`
	AppID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_upvotes_user_app;index" json:"app_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AppInterest records a user's intent to be notified when a coming-soon
// listing launches. Country is taken from the edge geo header when present.
type AppInterest struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_interests_user_app" json:"user_id"`
	AppID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_interests_user_app;index" json:"app_id"`
	Country   *string   `gorm:"size:2" json:"country"`
	CreatedAt time.Time `json:"created_at"`
}
