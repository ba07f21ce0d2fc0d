package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicenative/backend/internal/dto"
	"github.com/voicenative/backend/internal/models"
	"github.com/voicenative/backend/internal/validation"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), validation.New())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:       "Sam@Example.COM",
		Password:    "Sup3rSecret",
		DisplayName: "Sam",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "sam@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)

	// Password is stored hashed
	var profile models.Profile
	require.NoError(t, db.First(&profile, "email = ?", "sam@example.com").Error)
	assert.NotEqual(t, "Sup3rSecret", profile.Password)

	t.Run("duplicate email rejected case-insensitively", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Email:       "sam@example.com",
			Password:    "An0therSecret",
			DisplayName: "Sam Again",
		})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login with right password", func(t *testing.T) {
		resp, err := svc.Login(&dto.LoginRequest{Email: "sam@example.com", Password: "Sup3rSecret"})
		require.NoError(t, err)
		assert.Equal(t, profile.ID, resp.User.ID)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{Email: "sam@example.com", Password: "WrongPass1"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("login with unknown email", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{Email: "ghost@example.com", Password: "Sup3rSecret"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshTokenRotation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), validation.New())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:       "sam@example.com",
		Password:    "Sup3rSecret",
		DisplayName: "Sam",
	})
	require.NoError(t, err)

	rotated, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The presented token is single-use
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The rotated token still works
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testConfig(), validation.New())

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:       "sam@example.com",
		Password:    "Sup3rSecret",
		DisplayName: "Sam",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
