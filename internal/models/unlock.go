package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppUnlock is a payment receipt granting the listing owner access to the
// interested-user list. The unique checkout session id makes duplicate
// webhook deliveries a detectable no-op.
type AppUnlock struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"app_id"`
	UnlockedBy        uuid.UUID `gorm:"type:uuid;not null;index" json:"unlocked_by"`
	CheckoutSessionID string    `gorm:"not null;size:255;uniqueIndex" json:"checkout_session_id"`
	PaymentIntentID   *string   `gorm:"size:255" json:"payment_intent_id"`
	AmountCents       int       `gorm:"default:0" json:"amount_cents"`
	Currency          string    `gorm:"size:3;default:'usd'" json:"currency"`
	CreatedAt         time.Time `json:"created_at"`
}

func (u *AppUnlock) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
