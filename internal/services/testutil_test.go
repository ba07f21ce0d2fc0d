package services

import (
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/voicenative/backend/internal/config"
	"github.com/voicenative/backend/internal/database"
	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
	"github.com/voicenative/backend/internal/ratelimit"
	"github.com/voicenative/backend/internal/storage"
	"github.com/voicenative/backend/internal/validation"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		MaxSubmissionsPerDay: 3,
		StoragePublicHost:    ".storage.voicenativeapps.com",
		StorageBucket:        "app-media",
		CheckoutBaseURL:      "https://checkout.voicenativeapps.com",
		UnlockPriceCents:     2900,
		JWTSecret:            "test-secret",
		JWTAccessExpiry:      time.Hour,
		JWTRefreshExpiry:     24 * time.Hour,
	}
}

func newTestAppService(t *testing.T, db *gorm.DB) *AppService {
	t.Helper()
	cfg := testConfig()
	v := validation.New()
	urls := storage.NewURLValidator(cfg.StoragePublicHost, cfg.StorageBucket)
	strict := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.FailClosed)
	toggles := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), ratelimit.FailOpen)
	return NewAppService(db, cfg, v, urls, strict, toggles)
}

func seedProfile(t *testing.T, db *gorm.DB, email string) *models.Profile {
	t.Helper()
	profile := &models.Profile{
		Email:       email,
		Password:    "$2a$10$fakehashfakehashfakehashfakehash",
		DisplayName: strings.Split(email, "@")[0],
		Role:        "user",
	}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedCategory(t *testing.T, db *gorm.DB, slug string) *models.Category {
	t.Helper()
	category := &models.Category{
		Name: strings.ReplaceAll(slug, "-", " "),
		Slug: slug,
	}
	require.NoError(t, db.Create(category).Error)
	return category
}

func submitRequest(categoryID uuid.UUID, name string) *dto.SubmitAppRequest {
	return &dto.SubmitAppRequest{
		Name:          name,
		Tagline:       "Control your whole day by voice",
		Description:   strings.Repeat("A thorough description of what this voice app does. ", 2),
		CategoryID:    categoryID.String(),
		VoiceFeatures: []string{"Voice Commands", "Voice Responses/TTS"},
		Platforms:     []string{"ios", "android"},
		WebsiteURL:    "https://" + Slugify(name) + ".example.com",
		PricingModel:  "free",
		Tags:          []string{"assistant", "hands free"},
	}
}

func seedApprovedApp(t *testing.T, db *gorm.DB, owner *models.Profile, category *models.Category, name string) *models.App {
	t.Helper()
	app := &models.App{
		SubmittedBy:   owner.ID,
		Name:          name,
		Slug:          Slugify(name),
		Tagline:       "Control your whole day by voice",
		Description:   strings.Repeat("A thorough description of what this voice app does. ", 2),
		CategoryID:    category.ID,
		VoiceFeatures: []byte(`["Voice Commands"]`),
		Platforms:     []byte(`["ios"]`),
		WebsiteURL:    "https://" + Slugify(name) + ".example.com",
		PricingModel:  "free",
		Status:        models.StatusApproved,
	}
	require.NoError(t, db.Create(app).Error)
	return app
}
