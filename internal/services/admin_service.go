package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/models"
)

var (
	ErrRejectionReasonTooShort = errors.New("please provide a rejection reason (at least 5 characters)")
	ErrInvalidReportStatus     = errors.New("report status must be resolved or dismissed")
)

// Reason recorded when an admin hides a listing, distinct from an explicit
// owner-visible rejection.
const hiddenByAdminReason = "Hidden by admin."

// AdminService implements the moderation state machine. Every caller has
// already passed the AdminRequired middleware; the service only enforces the
// transition rules.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Approve moves a listing to approved and clears any rejection reason.
func (s *AdminService) Approve(ctx context.Context, appID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.App{}).
		Where("id = ?", appID).
		Updates(map[string]interface{}{
			"status":           models.StatusApproved,
			"rejection_reason": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to approve app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppNotFound
	}
	return nil
}

// Reject moves a listing to rejected with an owner-visible reason.
func (s *AdminService) Reject(ctx context.Context, appID uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if len(reason) < 5 {
		return ErrRejectionReasonTooShort
	}

	result := s.db.WithContext(ctx).Model(&models.App{}).
		Where("id = ?", appID).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"rejection_reason": reason,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reject app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppNotFound
	}
	return nil
}

// Hide rejects a listing with the fixed system reason. Used to pull an
// approved listing from the directory without a moderation verdict.
func (s *AdminService) Hide(ctx context.Context, appID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.App{}).
		Where("id = ?", appID).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"rejection_reason": hiddenByAdminReason,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to hide app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAppNotFound
	}
	return nil
}

// ToggleFeatured flips the featured flag and reports the resulting state.
func (s *AdminService) ToggleFeatured(ctx context.Context, appID uuid.UUID) (bool, error) {
	var app models.App
	if err := s.db.WithContext(ctx).First(&app, "id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrAppNotFound
		}
		return false, fmt.Errorf("failed to load app: %w", err)
	}

	featured := !app.Featured
	if err := s.db.WithContext(ctx).Model(&app).Update("featured", featured).Error; err != nil {
		return false, fmt.Errorf("failed to update featured flag: %w", err)
	}
	return featured, nil
}

// Delete hard-removes a listing and its dependent rows. There is no
// owner-facing delete; this path exists only behind the admin check.
func (s *AdminService) Delete(ctx context.Context, appID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tx.Where("app_id = ?", appID).Delete(&models.AppTag{})
		tx.Where("app_id = ?", appID).Delete(&models.Upvote{})
		tx.Where("app_id = ?", appID).Delete(&models.AppInterest{})
		tx.Where("app_id = ?", appID).Delete(&models.Report{})
		tx.Where("app_id = ?", appID).Delete(&models.AppUnlock{})

		result := tx.Where("id = ?", appID).Delete(&models.App{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete app: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAppNotFound
		}
		return nil
	})
}

// ResolveReport transitions a report to resolved or dismissed.
func (s *AdminService) ResolveReport(ctx context.Context, reportID uuid.UUID, status string) error {
	if status != models.ReportResolved && status != models.ReportDismissed {
		return ErrInvalidReportStatus
	}

	result := s.db.WithContext(ctx).Model(&models.Report{}).
		Where("id = ?", reportID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

// ListApps returns the moderation queue, optionally filtered by status.
func (s *AdminService) ListApps(ctx context.Context, status string, limit, offset int) ([]models.App, int64, error) {
	var apps []models.App
	var total int64

	query := s.db.WithContext(ctx).Model(&models.App{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Category").Order("created_at DESC").Limit(limit).Offset(offset).Find(&apps).Error
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListReports returns reports, optionally filtered by status.
func (s *AdminService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}
