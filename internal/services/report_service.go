package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
	"github.com/voicenative/backend/internal/ratelimit"
	"github.com/voicenative/backend/internal/validation"
)

const (
	reportMaxPerWindow = 5
	reportWindow       = 10 * time.Minute
)

// ReportService handles user moderation flags on listings.
type ReportService struct {
	db        *gorm.DB
	validator *validation.Validator
	limiter   *ratelimit.Limiter
	now       func() time.Time
}

func NewReportService(db *gorm.DB, v *validation.Validator, store ratelimit.Store) *ReportService {
	return &ReportService{
		db:        db,
		validator: v,
		limiter:   ratelimit.NewLimiter(store, ratelimit.FailClosed),
		now:       time.Now,
	}
}

// SubmitReport files a report against an approved listing. A user can hold at
// most one pending report per listing; filing again while one is open fails.
func (s *ReportService) SubmitReport(ctx context.Context, userID uuid.UUID, req *dto.SubmitReportRequest) error {
	if !s.limiter.Allow(ctx, "report:"+userID.String(), reportMaxPerWindow, reportWindow) {
		return ErrRateLimited
	}

	if err := s.validator.Validate(req); err != nil {
		return err
	}
	appID := uuid.MustParse(req.AppID)

	var app models.App
	err := s.db.WithContext(ctx).
		Select("id").
		First(&app, "id = ? AND status = ?", appID, models.StatusApproved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAppNotFound
		}
		return fmt.Errorf("failed to load app: %w", err)
	}

	var pending int64
	err = s.db.WithContext(ctx).Model(&models.Report{}).
		Where("app_id = ? AND reporter_id = ? AND status = ?", appID, userID, models.ReportPending).
		Count(&pending).Error
	if err != nil {
		return fmt.Errorf("failed to check existing reports: %w", err)
	}
	if pending > 0 {
		return ErrDuplicateReport
	}

	report := models.Report{
		AppID:      appID,
		ReporterID: userID,
		Reason:     req.Reason,
		Details:    req.Details,
		Status:     models.ReportPending,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}
