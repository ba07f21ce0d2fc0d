package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
)

var (
	ErrMissingMetadata = errors.New("checkout session is missing app metadata")
)

// UnlockService sells the listing owner access to their interested-user list.
// Payment happens on the provider's hosted checkout page; the webhook handler
// feeds completed sessions back into HandleCheckoutCompleted.
type UnlockService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewUnlockService(db *gorm.DB, cfg *config.Config) *UnlockService {
	return &UnlockService{db: db, cfg: cfg}
}

// CreateCheckoutSession returns the hosted checkout URL for unlocking a
// listing's audience data. Only the owner can start checkout, and only once.
func (s *UnlockService) CreateCheckoutSession(ctx context.Context, userID, appID uuid.UUID) (*dto.CheckoutSessionResponse, error) {
	var app models.App
	err := s.db.WithContext(ctx).Select("id", "submitted_by", "slug").First(&app, "id = ?", appID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to load app: %w", err)
	}
	if app.SubmittedBy != userID {
		return nil, ErrNotOwner
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.AppUnlock{}).Where("app_id = ?", appID).Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check unlock state: %w", err)
	}
	if existing > 0 {
		return nil, ErrAlreadyUnlocked
	}

	checkout, err := url.Parse(strings.TrimRight(s.cfg.CheckoutBaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid checkout base url: %w", err)
	}
	q := checkout.Query()
	q.Set("app_id", appID.String())
	q.Set("unlocked_by", userID.String())
	q.Set("amount", fmt.Sprintf("%d", s.cfg.UnlockPriceCents))
	checkout.RawQuery = q.Encode()

	return &dto.CheckoutSessionResponse{URL: checkout.String()}, nil
}

// HandleCheckoutCompleted records a paid unlock. Idempotent: a redelivered
// session id hits the unique index and is treated as already processed.
func (s *UnlockService) HandleCheckoutCompleted(ctx context.Context, session *dto.CheckoutSession) (duplicate bool, err error) {
	appIDRaw := session.Metadata["app_id"]
	unlockedByRaw := session.Metadata["unlocked_by"]
	if appIDRaw == "" || unlockedByRaw == "" {
		return false, ErrMissingMetadata
	}
	appID, err := uuid.Parse(appIDRaw)
	if err != nil {
		return false, fmt.Errorf("%w: bad app_id", ErrMissingMetadata)
	}
	unlockedBy, err := uuid.Parse(unlockedByRaw)
	if err != nil {
		return false, fmt.Errorf("%w: bad unlocked_by", ErrMissingMetadata)
	}

	unlock := models.AppUnlock{
		AppID:             appID,
		UnlockedBy:        unlockedBy,
		CheckoutSessionID: session.ID,
		AmountCents:       session.AmountTotal,
		Currency:          strings.ToLower(session.Currency),
	}
	if session.PaymentIntent != "" {
		unlock.PaymentIntentID = &session.PaymentIntent
	}
	if unlock.Currency == "" {
		unlock.Currency = "usd"
	}

	if err := s.db.WithContext(ctx).Create(&unlock).Error; err != nil {
		if isUniqueViolation(err) {
			slog.Info("duplicate checkout delivery ignored", "session_id", session.ID, "app_id", appID)
			return true, nil
		}
		return false, fmt.Errorf("failed to record unlock: %w", err)
	}
	return false, nil
}

// IsUnlocked reports whether a listing's audience data has been paid for.
func (s *UnlockService) IsUnlocked(ctx context.Context, appID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.AppUnlock{}).Where("app_id = ?", appID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation matches both the PostgreSQL driver error text and the
// SQLite one used in tests. GORM does not normalize this across dialects.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
