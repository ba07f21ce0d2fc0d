package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
)

func TestSubmitAppCreatesPendingListing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	user := seedProfile(t, db, "owner@example.com")
	category := seedCategory(t, db, "productivity")

	resp, err := svc.SubmitApp(ctx, user.ID, submitRequest(category.ID, "EchoNotes"))
	require.NoError(t, err)
	assert.Equal(t, "echonotes", resp.Slug)

	var app models.App
	require.NoError(t, db.First(&app, "id = ?", resp.ID).Error)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, user.ID, app.SubmittedBy)
	assert.Nil(t, app.RejectionReason)

	// Tags were associated
	tags, err := svc.AppTags(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestSubmitAppHoneypotFakesSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	user := seedProfile(t, db, "bot@example.com")
	category := seedCategory(t, db, "productivity")

	req := submitRequest(category.ID, "BotApp")
	req.Website2 = "https://filled-by-bot.example.com"

	resp, err := svc.SubmitApp(ctx, user.ID, req)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	var count int64
	require.NoError(t, db.Model(&models.App{}).Count(&count).Error)
	assert.Zero(t, count, "honeypot submission must not persist anything")
}

func TestSubmitAppDuplicateChecks(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "first@example.com")
	other := seedProfile(t, db, "second@example.com")
	category := seedCategory(t, db, "productivity")

	_, err := svc.SubmitApp(ctx, owner.ID, submitRequest(category.ID, "EchoNotes"))
	require.NoError(t, err)

	t.Run("same website url", func(t *testing.T) {
		req := submitRequest(category.ID, "Different Name")
		req.WebsiteURL = "https://echonotes.example.com"
		_, err := svc.SubmitApp(ctx, other.ID, req)
		assert.ErrorIs(t, err, ErrDuplicateWebsite)
	})

	t.Run("same name different case", func(t *testing.T) {
		req := submitRequest(category.ID, "ECHONOTES")
		req.WebsiteURL = "https://other-site.example.com"
		_, err := svc.SubmitApp(ctx, other.ID, req)
		assert.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestSubmitAppSlugCollisionGetsSuffix(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	user := seedProfile(t, db, "owner@example.com")
	category := seedCategory(t, db, "productivity")

	// An existing listing already holds the natural slug under a different
	// name and site, so only the slug collides.
	existing := seedApprovedApp(t, db, user, category, "Echo Notes")
	require.Equal(t, "echo-notes", existing.Slug)

	req := submitRequest(category.ID, "Echo  Notes!")
	req.WebsiteURL = "https://echo-notes-two.example.com"
	resp, err := svc.SubmitApp(ctx, user.ID, req)

	// "Echo Notes" and "Echo  Notes!" normalize to different name strings, but
	// the duplicate-name check is exact so only the slug needs disambiguation.
	require.NoError(t, err)
	assert.NotEqual(t, "echo-notes", resp.Slug)
	assert.Contains(t, resp.Slug, "echo-notes-")
}

func TestSubmitAppDailyQuota(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	user := seedProfile(t, db, "prolific@example.com")
	category := seedCategory(t, db, "productivity")

	names := []string{"App One", "App Two", "App Three"}
	for _, name := range names {
		_, err := svc.SubmitApp(ctx, user.ID, submitRequest(category.ID, name))
		require.NoError(t, err, "submission %q within quota should pass", name)
	}

	_, err := svc.SubmitApp(ctx, user.ID, submitRequest(category.ID, "App Four"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	// Next day the quota resets
	svc.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	_, err = svc.SubmitApp(ctx, user.ID, submitRequest(category.ID, "App Four"))
	assert.NoError(t, err)
}

func TestSubmitAppRejectsForeignMediaURLs(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	user := seedProfile(t, db, "owner@example.com")
	category := seedCategory(t, db, "productivity")

	req := submitRequest(category.ID, "EchoNotes")
	req.LogoURL = "https://evil.example.com/app-media/logo.png"
	_, err := svc.SubmitApp(ctx, user.ID, req)
	assert.ErrorIs(t, err, ErrInvalidMediaURL)

	req = submitRequest(category.ID, "EchoNotes")
	req.ScreenshotURLs = []string{"https://assets.storage.voicenativeapps.com/wrong-bucket/s.png"}
	_, err = svc.SubmitApp(ctx, user.ID, req)
	assert.ErrorIs(t, err, ErrInvalidMediaURL)
}

func TestUpdateAppAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	stranger := seedProfile(t, db, "stranger@example.com")
	category := seedCategory(t, db, "productivity")

	resp, err := svc.SubmitApp(ctx, owner.ID, submitRequest(category.ID, "EchoNotes"))
	require.NoError(t, err)

	req := submitRequest(category.ID, "EchoNotes")
	req.Tagline = "An updated tagline for the listing"

	t.Run("stranger cannot edit", func(t *testing.T) {
		err := svc.UpdateApp(ctx, stranger.ID, resp.ID, req)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("missing app reads as not owner", func(t *testing.T) {
		err := svc.UpdateApp(ctx, owner.ID, uuid.New(), req)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("approved listing is locked", func(t *testing.T) {
		require.NoError(t, db.Model(&models.App{}).Where("id = ?", resp.ID).
			Update("status", models.StatusApproved).Error)
		err := svc.UpdateApp(ctx, owner.ID, resp.ID, req)
		assert.ErrorIs(t, err, ErrApprovedLocked)
	})
}

func TestUpdateAppResetsRejectedToPending(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	category := seedCategory(t, db, "productivity")

	resp, err := svc.SubmitApp(ctx, owner.ID, submitRequest(category.ID, "EchoNotes"))
	require.NoError(t, err)

	reason := "Logo is broken"
	require.NoError(t, db.Model(&models.App{}).Where("id = ?", resp.ID).
		Updates(map[string]interface{}{
			"status":           models.StatusRejected,
			"rejection_reason": reason,
		}).Error)

	req := submitRequest(category.ID, "EchoNotes")
	req.Tagline = "Fixed everything the reviewer flagged"
	require.NoError(t, svc.UpdateApp(ctx, owner.ID, resp.ID, req))

	var app models.App
	require.NoError(t, db.First(&app, "id = ?", resp.ID).Error)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Nil(t, app.RejectionReason)
	assert.Equal(t, "Fixed everything the reviewer flagged", app.Tagline)
}

func TestToggleUpvote(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	voter := seedProfile(t, db, "voter@example.com")
	category := seedCategory(t, db, "productivity")
	app := seedApprovedApp(t, db, owner, category, "EchoNotes")

	upvoted, err := svc.ToggleUpvote(ctx, voter.ID, app.ID)
	require.NoError(t, err)
	assert.True(t, upvoted)

	var reloaded models.App
	require.NoError(t, db.First(&reloaded, "id = ?", app.ID).Error)
	assert.Equal(t, 1, reloaded.UpvoteCount)

	upvoted, err = svc.ToggleUpvote(ctx, voter.ID, app.ID)
	require.NoError(t, err)
	assert.False(t, upvoted)

	require.NoError(t, db.First(&reloaded, "id = ?", app.ID).Error)
	assert.Equal(t, 0, reloaded.UpvoteCount)
}

func TestToggleInterestRecordsCountry(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	fan := seedProfile(t, db, "fan@example.com")
	category := seedCategory(t, db, "productivity")
	app := seedApprovedApp(t, db, owner, category, "EchoNotes")

	interested, err := svc.ToggleInterest(ctx, fan.ID, app.ID, "DE")
	require.NoError(t, err)
	assert.True(t, interested)

	var interest models.AppInterest
	require.NoError(t, db.First(&interest, "user_id = ? AND app_id = ?", fan.ID, app.ID).Error)
	require.NotNil(t, interest.Country)
	assert.Equal(t, "DE", *interest.Country)

	// Malformed geo header degrades to unknown, not an error
	other := seedProfile(t, db, "other@example.com")
	interested, err = svc.ToggleInterest(ctx, other.ID, app.ID, "Germany")
	require.NoError(t, err)
	assert.True(t, interested)

	require.NoError(t, db.First(&interest, "user_id = ? AND app_id = ?", other.ID, app.ID).Error)
	assert.Nil(t, interest.Country)
}

func TestListAppsFiltersAndAnnotations(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	viewer := seedProfile(t, db, "viewer@example.com")
	productivity := seedCategory(t, db, "productivity")
	smartHome := seedCategory(t, db, "smart-home")

	echo := seedApprovedApp(t, db, owner, productivity, "EchoNotes")
	seedApprovedApp(t, db, owner, smartHome, "HomeVoice")

	// Pending listings never appear publicly
	pending := seedApprovedApp(t, db, owner, productivity, "HiddenApp")
	require.NoError(t, db.Model(pending).Update("status", models.StatusPending).Error)

	_, err := svc.ToggleUpvote(ctx, viewer.ID, echo.ID)
	require.NoError(t, err)

	t.Run("only approved listed", func(t *testing.T) {
		items, pagination, err := svc.ListApps(ctx, &dto.ListAppsQuery{}, nil)
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.EqualValues(t, 2, pagination.Total)
	})

	t.Run("category filter", func(t *testing.T) {
		items, _, err := svc.ListApps(ctx, &dto.ListAppsQuery{Category: "smart-home"}, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "HomeVoice", items[0].Name)
	})

	t.Run("search matches name", func(t *testing.T) {
		items, _, err := svc.ListApps(ctx, &dto.ListAppsQuery{Search: "echo"}, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "EchoNotes", items[0].Name)
	})

	t.Run("membership annotated for signed-in viewer", func(t *testing.T) {
		items, _, err := svc.ListApps(ctx, &dto.ListAppsQuery{Sort: "popular"}, &viewer.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "EchoNotes", items[0].Name)
		assert.True(t, items[0].UserHasUpvoted)
		assert.False(t, items[1].UserHasUpvoted)
	})
}

func TestGetBySlugIncrementsViewCount(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	category := seedCategory(t, db, "productivity")
	app := seedApprovedApp(t, db, owner, category, "EchoNotes")

	item, err := svc.GetBySlug(ctx, "echonotes", nil)
	require.NoError(t, err)
	assert.Equal(t, app.ID, item.ID)

	var reloaded models.App
	require.NoError(t, db.First(&reloaded, "id = ?", app.ID).Error)
	assert.Equal(t, 1, reloaded.ViewCount)

	_, err = svc.GetBySlug(ctx, "missing", nil)
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestSubmitAppRateLimit(t *testing.T) {
	db := newTestDB(t)
	svc := newTestAppService(t, db)
	ctx := context.Background()

	user := seedProfile(t, db, "spammer@example.com")
	category := seedCategory(t, db, "productivity")

	// Quota allows 3/day, so use invalid requests to burn the limiter: the
	// limiter is checked before validation.
	bad := submitRequest(category.ID, "x")
	bad.WebsiteURL = "not-a-url"

	for i := 0; i < 5; i++ {
		_, err := svc.SubmitApp(ctx, user.ID, bad)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrRateLimited)
	}

	_, err := svc.SubmitApp(ctx, user.ID, bad)
	assert.ErrorIs(t, err, ErrRateLimited)
}
