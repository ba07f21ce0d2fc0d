package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
)

// AnalyticsService gives listing owners insight into collected interest.
// Aggregates (timeline, country breakdown) are free; the identifying
// interested-user list sits behind a paid unlock.
type AnalyticsService struct {
	db      *gorm.DB
	unlocks *UnlockService
}

func NewAnalyticsService(db *gorm.DB, unlocks *UnlockService) *AnalyticsService {
	return &AnalyticsService{db: db, unlocks: unlocks}
}

func (s *AnalyticsService) ownedApp(ctx context.Context, userID, appID uuid.UUID) (*models.App, error) {
	var app models.App
	err := s.db.WithContext(ctx).
		Select("id", "submitted_by", "name", "interest_count", "is_coming_soon").
		First(&app, "id = ?", appID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to load app: %w", err)
	}
	if app.SubmittedBy != userID {
		return nil, ErrNotOwner
	}
	return &app, nil
}

// GetInterestAnalytics returns the aggregate interest picture for a listing
// the caller owns. The three queries are independent and run concurrently.
func (s *AnalyticsService) GetInterestAnalytics(ctx context.Context, userID, appID uuid.UUID) (*dto.InterestAnalyticsResponse, error) {
	app, err := s.ownedApp(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	resp := &dto.InterestAnalyticsResponse{
		App: dto.AnalyticsAppSummary{
			ID:            app.ID,
			Name:          app.Name,
			InterestCount: app.InterestCount,
			IsComingSoon:  app.IsComingSoon,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		timeline, err := s.interestTimeline(gctx, appID, 30)
		if err != nil {
			return err
		}
		resp.Timeline = timeline
		return nil
	})
	g.Go(func() error {
		countries, err := s.interestCountries(gctx, appID)
		if err != nil {
			return err
		}
		resp.Countries = countries
		return nil
	})
	g.Go(func() error {
		unlocked, err := s.unlocks.IsUnlocked(gctx, appID)
		if err != nil {
			return err
		}
		resp.IsUnlocked = unlocked
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build analytics: %w", err)
	}
	return resp, nil
}

// interestTimeline buckets interest rows per day over the trailing window.
// Days without signups are omitted; the client fills gaps.
func (s *AnalyticsService) interestTimeline(ctx context.Context, appID uuid.UUID, days int) ([]dto.InterestTimelinePoint, error) {
	since := time.Now().AddDate(0, 0, -days)

	var rows []models.AppInterest
	err := s.db.WithContext(ctx).
		Where("app_id = ? AND created_at >= ?", appID, since).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0, days)
	for _, row := range rows {
		day := row.CreatedAt.UTC().Format("2006-01-02")
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	points := make([]dto.InterestTimelinePoint, 0, len(order))
	for _, day := range order {
		points = append(points, dto.InterestTimelinePoint{Day: day, Count: counts[day]})
	}
	return points, nil
}

func (s *AnalyticsService) interestCountries(ctx context.Context, appID uuid.UUID) ([]dto.InterestCountryBreakdown, error) {
	var breakdown []dto.InterestCountryBreakdown
	err := s.db.WithContext(ctx).Model(&models.AppInterest{}).
		Select("country, COUNT(*) as count").
		Where("app_id = ? AND country IS NOT NULL", appID).
		Group("country").
		Order("count DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, err
	}
	return breakdown, nil
}

// GetInterestedUsers returns the identifying audience list. Requires both
// ownership and a recorded unlock for the listing.
func (s *AnalyticsService) GetInterestedUsers(ctx context.Context, userID, appID uuid.UUID) ([]dto.InterestedUser, error) {
	if _, err := s.ownedApp(ctx, userID, appID); err != nil {
		return nil, err
	}
	unlocked, err := s.unlocks.IsUnlocked(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to check unlock state: %w", err)
	}
	if !unlocked {
		return nil, ErrNotUnlocked
	}

	type row struct {
		Email       string
		DisplayName string
		Country     *string
		CreatedAt   time.Time
	}
	var rows []row
	err = s.db.WithContext(ctx).Model(&models.AppInterest{}).
		Select("profiles.email, profiles.display_name, app_interests.country, app_interests.created_at").
		Joins("JOIN profiles ON profiles.id = app_interests.user_id").
		Where("app_interests.app_id = ?", appID).
		Order("app_interests.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load interested users: %w", err)
	}

	users := make([]dto.InterestedUser, 0, len(rows))
	for _, r := range rows {
		users = append(users, dto.InterestedUser{
			Email:        r.Email,
			DisplayName:  r.DisplayName,
			Country:      r.Country,
			InterestedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return users, nil
}

// ExportInterestedUsersCSV renders the unlocked audience list as CSV for
// download from the owner dashboard.
func (s *AnalyticsService) ExportInterestedUsersCSV(ctx context.Context, userID, appID uuid.UUID) ([]byte, error) {
	users, err := s.GetInterestedUsers(ctx, userID, appID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"email", "display_name", "country", "interested_at"}); err != nil {
		return nil, err
	}
	for _, u := range users {
		country := ""
		if u.Country != nil {
			country = *u.Country
		}
		if err := w.Write([]string{u.Email, u.DisplayName, country, u.InterestedAt}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
