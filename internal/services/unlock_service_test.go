package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
)

func TestCreateCheckoutSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	stranger := seedProfile(t, db, "stranger@example.com")
	category := seedCategory(t, db, "productivity")
	app := seedApprovedApp(t, db, owner, category, "EchoNotes")

	t.Run("owner gets checkout url", func(t *testing.T) {
		resp, err := svc.CreateCheckoutSession(ctx, owner.ID, app.ID)
		require.NoError(t, err)
		assert.Contains(t, resp.URL, "https://checkout.voicenativeapps.com")
		assert.Contains(t, resp.URL, "app_id="+app.ID.String())
		assert.Contains(t, resp.URL, "unlocked_by="+owner.ID.String())
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		_, err := svc.CreateCheckoutSession(ctx, stranger.ID, app.ID)
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("already unlocked", func(t *testing.T) {
		require.NoError(t, db.Create(&models.AppUnlock{
			AppID: app.ID, UnlockedBy: owner.ID, CheckoutSessionID: "cs_test_1",
		}).Error)
		_, err := svc.CreateCheckoutSession(ctx, owner.ID, app.ID)
		assert.ErrorIs(t, err, ErrAlreadyUnlocked)
	})
}

func TestHandleCheckoutCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	ctx := context.Background()

	owner := seedProfile(t, db, "owner@example.com")
	category := seedCategory(t, db, "productivity")
	app := seedApprovedApp(t, db, owner, category, "EchoNotes")

	session := &dto.CheckoutSession{
		ID:            "cs_test_abc",
		PaymentIntent: "pi_test_abc",
		AmountTotal:   2900,
		Currency:      "USD",
		Metadata: map[string]string{
			"app_id":      app.ID.String(),
			"unlocked_by": owner.ID.String(),
		},
	}

	duplicate, err := svc.HandleCheckoutCompleted(ctx, session)
	require.NoError(t, err)
	assert.False(t, duplicate)

	var unlock models.AppUnlock
	require.NoError(t, db.First(&unlock, "app_id = ?", app.ID).Error)
	assert.Equal(t, "cs_test_abc", unlock.CheckoutSessionID)
	assert.Equal(t, 2900, unlock.AmountCents)
	assert.Equal(t, "usd", unlock.Currency)

	// Redelivery of the same session is acknowledged, not duplicated
	duplicate, err = svc.HandleCheckoutCompleted(ctx, session)
	require.NoError(t, err)
	assert.True(t, duplicate)

	var count int64
	db.Model(&models.AppUnlock{}).Where("app_id = ?", app.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	unlocked, err := svc.IsUnlocked(ctx, app.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestHandleCheckoutCompletedMissingMetadata(t *testing.T) {
	db := newTestDB(t)
	svc := NewUnlockService(db, testConfig())
	ctx := context.Background()

	_, err := svc.HandleCheckoutCompleted(ctx, &dto.CheckoutSession{
		ID:       "cs_test_no_meta",
		Metadata: map[string]string{},
	})
	assert.ErrorIs(t, err, ErrMissingMetadata)

	_, err = svc.HandleCheckoutCompleted(ctx, &dto.CheckoutSession{
		ID:       "cs_test_bad_meta",
		Metadata: map[string]string{"app_id": "nope", "unlocked_by": "nope"},
	})
	assert.ErrorIs(t, err, ErrMissingMetadata)
}
