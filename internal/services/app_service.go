package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
	"github.com/voicenative/backend/internal/ratelimit"
	"github.com/voicenative/backend/internal/storage"
	"github.com/voicenative/backend/internal/validation"
)

// AppService owns the listing lifecycle: submission, edits, toggles, and the
// public browse/read paths.
type AppService struct {
	db            *gorm.DB
	cfg           *config.Config
	validator     *validation.Validator
	urlValidator  *storage.URLValidator
	strictLimiter *ratelimit.Limiter // fail-closed: submissions
	toggleLimiter *ratelimit.Limiter // fail-open: upvote/interest flips
	now           func() time.Time
}

func NewAppService(db *gorm.DB, cfg *config.Config, v *validation.Validator, urls *storage.URLValidator, strict, toggles *ratelimit.Limiter) *AppService {
	return &AppService{
		db:            db,
		cfg:           cfg,
		validator:     v,
		urlValidator:  urls,
		strictLimiter: strict,
		toggleLimiter: toggles,
		now:           time.Now,
	}
}

const (
	submitMaxPerWindow = 5
	submitWindow       = 10 * time.Minute
	toggleMaxPerWindow = 30
	toggleWindow       = time.Minute
	browsePerPage      = 12
)

// SubmitApp runs the create-path workflow. The returned response carries the
// new listing's id and slug; a honeypot hit returns a fabricated id with
// nothing persisted.
func (s *AppService) SubmitApp(ctx context.Context, userID uuid.UUID, req *dto.SubmitAppRequest) (*dto.SubmitAppResponse, error) {
	if !s.strictLimiter.Allow(ctx, "submit:"+userID.String(), submitMaxPerWindow, submitWindow) {
		return nil, ErrRateLimited
	}

	// Bots fill the hidden field. Pretend success so they cannot tell they
	// were detected.
	if req.Website2 != "" {
		return &dto.SubmitAppResponse{ID: uuid.New()}, nil
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if err := s.checkMediaURLs(req); err != nil {
		return nil, err
	}

	if err := s.consumeDailyQuota(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.checkDuplicates(ctx, req.WebsiteURL, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	app := models.App{
		ID:          uuid.New(),
		SubmittedBy: userID,
		Slug:        slug,
		Status:      models.StatusPending,
	}
	applyRequest(&app, req)

	if err := s.db.WithContext(ctx).Create(&app).Error; err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	// Tag association is non-critical: the listing is already live in the
	// review queue, so failures are logged and swallowed.
	s.associateTags(ctx, app.ID, req.Tags)

	return &dto.SubmitAppResponse{ID: app.ID, Slug: app.Slug}, nil
}

// UpdateApp re-runs validation and media checks, requires ownership, blocks
// edits of approved listings, and resets status to pending on success.
func (s *AppService) UpdateApp(ctx context.Context, userID, appID uuid.UUID, req *dto.SubmitAppRequest) error {
	var app models.App
	if err := s.db.WithContext(ctx).First(&app, "id = ?", appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotOwner
		}
		return fmt.Errorf("failed to load app: %w", err)
	}

	if app.SubmittedBy != userID {
		return ErrNotOwner
	}
	if app.Status == models.StatusApproved {
		return ErrApprovedLocked
	}

	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if err := s.checkMediaURLs(req); err != nil {
		return err
	}
	if err := s.checkDuplicates(ctx, req.WebsiteURL, req.Name, app.ID); err != nil {
		return err
	}

	applyRequest(&app, req)
	app.Status = models.StatusPending // re-submit for review
	app.RejectionReason = nil

	if err := s.db.WithContext(ctx).Save(&app).Error; err != nil {
		return fmt.Errorf("failed to update app: %w", err)
	}

	s.db.WithContext(ctx).Where("app_id = ?", app.ID).Delete(&models.AppTag{})
	s.associateTags(ctx, app.ID, req.Tags)
	return nil
}

// ToggleUpvote flips the caller's upvote and reports the resulting state.
func (s *AppService) ToggleUpvote(ctx context.Context, userID, appID uuid.UUID) (bool, error) {
	if !s.toggleLimiter.Allow(ctx, "upvote:"+userID.String(), toggleMaxPerWindow, toggleWindow) {
		return false, ErrRateLimited
	}

	var upvoted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Upvote
		err := tx.Where("user_id = ? AND app_id = ?", userID, appID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("user_id = ? AND app_id = ?", userID, appID).Delete(&models.Upvote{}).Error; err != nil {
				return err
			}
			upvoted = false
			return tx.Model(&models.App{}).Where("id = ? AND upvote_count > 0", appID).
				Update("upvote_count", gorm.Expr("upvote_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Upvote{UserID: userID, AppID: appID}).Error; err != nil {
				return err
			}
			upvoted = true
			return tx.Model(&models.App{}).Where("id = ?", appID).
				Update("upvote_count", gorm.Expr("upvote_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle upvote: %w", err)
	}
	return upvoted, nil
}

// ToggleInterest flips the caller's interest record. Country, when present,
// must be a two-letter code; it is recorded only on insertion.
func (s *AppService) ToggleInterest(ctx context.Context, userID, appID uuid.UUID, country string) (bool, error) {
	if !s.toggleLimiter.Allow(ctx, "interest:"+userID.String(), toggleMaxPerWindow, toggleWindow) {
		return false, ErrRateLimited
	}

	var countryPtr *string
	if validation.IsCountryCode(country) {
		countryPtr = &country
	}

	var interested bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.AppInterest
		err := tx.Where("user_id = ? AND app_id = ?", userID, appID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("user_id = ? AND app_id = ?", userID, appID).Delete(&models.AppInterest{}).Error; err != nil {
				return err
			}
			interested = false
			return tx.Model(&models.App{}).Where("id = ? AND interest_count > 0", appID).
				Update("interest_count", gorm.Expr("interest_count - 1")).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.AppInterest{UserID: userID, AppID: appID, Country: countryPtr}).Error; err != nil {
				return err
			}
			interested = true
			return tx.Model(&models.App{}).Where("id = ?", appID).
				Update("interest_count", gorm.Expr("interest_count + 1")).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle interest: %w", err)
	}
	return interested, nil
}

// ListApps serves the public directory: approved listings with search,
// category/platform/pricing filters, sorting and pagination. When userID is
// non-nil the caller's upvote/interest membership is annotated.
func (s *AppService) ListApps(ctx context.Context, query *dto.ListAppsQuery, userID *uuid.UUID) ([]dto.AppListItem, *dto.Pagination, error) {
	q := s.db.WithContext(ctx).Model(&models.App{}).Where("status = ?", models.StatusApproved)

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(tagline) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern)
	}
	if query.Category != "" {
		var category models.Category
		if err := s.db.WithContext(ctx).Where("slug = ?", query.Category).First(&category).Error; err == nil {
			q = q.Where("category_id = ?", category.ID)
		}
	}
	if query.Platform != "" {
		// Platforms is a JSON string array; element match via its quoted form.
		q = q.Where("platforms LIKE ?", `%"`+query.Platform+`"%`)
	}
	if query.Pricing != "" {
		q = q.Where("pricing_model = ?", query.Pricing)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count apps: %w", err)
	}

	switch query.Sort {
	case "popular":
		q = q.Order("upvote_count DESC")
	case "name":
		q = q.Order("name ASC")
	default:
		q = q.Order("created_at DESC")
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	perPage := query.PerPage
	if perPage < 1 || perPage > 50 {
		perPage = browsePerPage
	}

	var apps []models.App
	if err := q.Preload("Category").Offset((page - 1) * perPage).Limit(perPage).Find(&apps).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list apps: %w", err)
	}

	items, err := s.annotateMembership(ctx, apps, userID)
	if err != nil {
		return nil, nil, err
	}

	pagination := &dto.Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + int64(perPage) - 1) / int64(perPage),
	}
	return items, pagination, nil
}

// GetBySlug loads one approved listing and bumps its view counter with an
// optimistic compare-and-swap. A lost increment under concurrent views is
// accepted; there is no retry.
func (s *AppService) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*dto.AppListItem, error) {
	var app models.App
	err := s.db.WithContext(ctx).Preload("Category").
		Where("slug = ? AND status = ?", slug, models.StatusApproved).First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, fmt.Errorf("failed to load app: %w", err)
	}

	s.db.WithContext(ctx).Model(&models.App{}).
		Where("id = ? AND view_count = ?", app.ID, app.ViewCount).
		Update("view_count", app.ViewCount+1)

	items, err := s.annotateMembership(ctx, []models.App{app}, userID)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// FeaturedApps returns featured approved listings for the landing page.
func (s *AppService) FeaturedApps(ctx context.Context, limit int) ([]models.App, error) {
	if limit < 1 || limit > 24 {
		limit = 6
	}
	var apps []models.App
	err := s.db.WithContext(ctx).Preload("Category").
		Where("status = ? AND featured = ?", models.StatusApproved, true).
		Order("upvote_count DESC").Limit(limit).Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list featured apps: %w", err)
	}
	return apps, nil
}

// OwnApps returns the caller's listings in every status for the dashboard.
func (s *AppService) OwnApps(ctx context.Context, userID uuid.UUID) ([]models.App, error) {
	var apps []models.App
	err := s.db.WithContext(ctx).Preload("Category").
		Where("submitted_by = ?", userID).
		Order("created_at DESC").Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list own apps: %w", err)
	}
	return apps, nil
}

// Categories returns the category reference data in display order.
func (s *AppService) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("display_order ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// AppTags returns the tags associated with a listing.
func (s *AppService) AppTags(ctx context.Context, appID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Joins("JOIN app_tags ON app_tags.tag_id = tags.id").
		Where("app_tags.app_id = ?", appID).
		Find(&tags).Error
	return tags, err
}

func (s *AppService) annotateMembership(ctx context.Context, apps []models.App, userID *uuid.UUID) ([]dto.AppListItem, error) {
	items := make([]dto.AppListItem, len(apps))
	for i := range apps {
		items[i] = dto.AppListItem{App: apps[i]}
	}
	if userID == nil || len(apps) == 0 {
		return items, nil
	}

	ids := make([]uuid.UUID, len(apps))
	for i := range apps {
		ids[i] = apps[i].ID
	}

	var upvotes []models.Upvote
	if err := s.db.WithContext(ctx).Where("user_id = ? AND app_id IN ?", *userID, ids).Find(&upvotes).Error; err != nil {
		return nil, fmt.Errorf("failed to load upvotes: %w", err)
	}
	var interests []models.AppInterest
	if err := s.db.WithContext(ctx).Where("user_id = ? AND app_id IN ?", *userID, ids).Find(&interests).Error; err != nil {
		return nil, fmt.Errorf("failed to load interests: %w", err)
	}

	upvoted := make(map[uuid.UUID]bool, len(upvotes))
	for _, u := range upvotes {
		upvoted[u.AppID] = true
	}
	interested := make(map[uuid.UUID]bool, len(interests))
	for _, in := range interests {
		interested[in.AppID] = true
	}
	for i := range items {
		items[i].UserHasUpvoted = upvoted[items[i].App.ID]
		items[i].UserHasInterested = interested[items[i].App.ID]
	}
	return items, nil
}

// consumeDailyQuota checks and increments the caller's daily submission
// counter in a single conditional UPDATE, so concurrent submissions from the
// same user cannot race past the limit.
func (s *AppService) consumeDailyQuota(ctx context.Context, userID uuid.UUID) error {
	today := s.now().UTC().Format("2006-01-02")
	max := s.cfg.MaxSubmissionsPerDay
	if max <= 0 {
		max = 3
	}

	result := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ? AND (last_submission_date IS NULL OR last_submission_date <> ? OR submissions_today < ?)",
			userID, today, max).
		Updates(map[string]interface{}{
			"submissions_today":    gorm.Expr("CASE WHEN last_submission_date = ? THEN submissions_today + 1 ELSE 1 END", today),
			"last_submission_date": today,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update submission quota: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

func (s *AppService) checkDuplicates(ctx context.Context, websiteURL, name string, excludeID uuid.UUID) error {
	var existing models.App

	q := s.db.WithContext(ctx).Where("website_url = ?", strings.TrimSpace(websiteURL))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.First(&existing).Error; err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateWebsite, existing.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("duplicate check failed: %w", err)
	}

	q = s.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name))
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.First(&existing).Error; err == nil {
		return fmt.Errorf("%w: %q", ErrDuplicateName, existing.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("duplicate check failed: %w", err)
	}
	return nil
}

func (s *AppService) uniqueSlug(ctx context.Context, name string) (string, error) {
	slug := Slugify(name)
	if slug == "" {
		slug = "app"
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.App{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return "", fmt.Errorf("slug lookup failed: %w", err)
	}
	if count > 0 {
		slug = slug + "-" + TimestampSuffix(s.now())
	}
	return slug, nil
}

func (s *AppService) checkMediaURLs(req *dto.SubmitAppRequest) error {
	if req.LogoURL != "" && !s.urlValidator.IsValid(req.LogoURL) {
		return ErrInvalidMediaURL
	}
	for _, u := range req.ScreenshotURLs {
		if !s.urlValidator.IsValid(u) {
			return ErrInvalidMediaURL
		}
	}
	return nil
}

func (s *AppService) associateTags(ctx context.Context, appID uuid.UUID, tags []string) {
	for _, raw := range tags {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		slug := Slugify(name)

		var tag models.Tag
		if err := s.db.WithContext(ctx).Where("slug = ?", slug).
			FirstOrCreate(&tag, models.Tag{Name: name, Slug: slug}).Error; err != nil {
			slog.Error("tag upsert failed", "tag", name, "error", err)
			continue
		}
		if err := s.db.WithContext(ctx).Create(&models.AppTag{AppID: appID, TagID: tag.ID}).Error; err != nil {
			slog.Error("tag association failed", "tag", name, "app_id", appID, "error", err)
		}
	}
}

func applyRequest(app *models.App, req *dto.SubmitAppRequest) {
	app.Name = strings.TrimSpace(req.Name)
	app.Tagline = strings.TrimSpace(req.Tagline)
	app.Description = strings.TrimSpace(req.Description)
	app.CategoryID = uuid.MustParse(req.CategoryID) // validated as uuid upstream
	app.VoiceFeatures = toJSONArray(req.VoiceFeatures)
	app.Platforms = toJSONArray(req.Platforms)
	app.WebsiteURL = strings.TrimSpace(req.WebsiteURL)
	app.AppStoreURL = cleanURL(req.AppStoreURL)
	app.PlayStoreURL = cleanURL(req.PlayStoreURL)
	app.OtherDownloadURL = cleanURL(req.OtherDownloadURL)
	app.DemoVideoURL = cleanURL(req.DemoVideoURL)
	app.LogoURL = strings.TrimSpace(req.LogoURL)
	app.ScreenshotURLs = toJSONArray(req.ScreenshotURLs)
	app.PricingModel = req.PricingModel
	app.PricingDetails = cleanOptional(req.PricingDetails)
	app.IsComingSoon = req.IsComingSoon
	app.ExpectedLaunchDate = cleanOptional(req.ExpectedLaunchDate)
}

func toJSONArray(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return datatypes.JSON(b)
}

func cleanURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleanOptional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
