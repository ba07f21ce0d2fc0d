package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicenative/backend/internal/dto"
)

func validSubmitRequest() *dto.SubmitAppRequest {
	return &dto.SubmitAppRequest{
		Name:          "EchoNotes",
		Tagline:       "Dictate notes anywhere, hands free",
		Description:   strings.Repeat("A voice note app that transcribes everything you say. ", 2),
		CategoryID:    "7f3c2a90-10aa-4a3d-9c4f-29fa6a2d9f11",
		VoiceFeatures: []string{"Voice Input/Dictation"},
		Platforms:     []string{"ios", "web"},
		WebsiteURL:    "https://echonotes.example.com",
		PricingModel:  "freemium",
	}
}

func TestSubmitAppRequestValid(t *testing.T) {
	v := New()
	require.NoError(t, v.Validate(validSubmitRequest()))
}

func TestSubmitAppRequestFieldErrors(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(r *dto.SubmitAppRequest)
		wantMsg string
	}{
		{
			name:    "missing name",
			mutate:  func(r *dto.SubmitAppRequest) { r.Name = "" },
			wantMsg: "Name is required",
		},
		{
			name:    "name too long",
			mutate:  func(r *dto.SubmitAppRequest) { r.Name = strings.Repeat("x", 101) },
			wantMsg: "Name must be under 100 characters",
		},
		{
			name:    "tagline too short",
			mutate:  func(r *dto.SubmitAppRequest) { r.Tagline = "short" },
			wantMsg: "Tagline must be at least 10 characters",
		},
		{
			name:    "description too short",
			mutate:  func(r *dto.SubmitAppRequest) { r.Description = "too short" },
			wantMsg: "Description must be at least 50 characters",
		},
		{
			name:    "bad category id",
			mutate:  func(r *dto.SubmitAppRequest) { r.CategoryID = "not-a-uuid" },
			wantMsg: "Please select a category",
		},
		{
			name:    "no voice features",
			mutate:  func(r *dto.SubmitAppRequest) { r.VoiceFeatures = []string{} },
			wantMsg: "Select at least one voice feature",
		},
		{
			name:    "unknown voice feature",
			mutate:  func(r *dto.SubmitAppRequest) { r.VoiceFeatures = []string{"Telepathy"} },
			wantMsg: "Unknown voice feature selected",
		},
		{
			name:    "unknown platform",
			mutate:  func(r *dto.SubmitAppRequest) { r.Platforms = []string{"amiga"} },
			wantMsg: "Unknown platform selected",
		},
		{
			name:    "javascript scheme website",
			mutate:  func(r *dto.SubmitAppRequest) { r.WebsiteURL = "javascript:alert(1)" },
			wantMsg: "URL must start with https:// or http://",
		},
		{
			name:    "app store url on wrong host",
			mutate:  func(r *dto.SubmitAppRequest) { r.AppStoreURL = "https://example.com/app" },
			wantMsg: "Must be a valid App Store URL",
		},
		{
			name:    "play store url on wrong path",
			mutate:  func(r *dto.SubmitAppRequest) { r.PlayStoreURL = "https://play.google.com/music" },
			wantMsg: "Must be a valid Play Store URL",
		},
		{
			name: "too many screenshots",
			mutate: func(r *dto.SubmitAppRequest) {
				r.ScreenshotURLs = []string{"a", "b", "c", "d", "e", "f"}
			},
			wantMsg: "Maximum 5 screenshots",
		},
		{
			name:    "bad pricing model",
			mutate:  func(r *dto.SubmitAppRequest) { r.PricingModel = "donationware" },
			wantMsg: "Please select a pricing model",
		},
		{
			name:    "impossible launch date",
			mutate:  func(r *dto.SubmitAppRequest) { r.ExpectedLaunchDate = "2026-02-30" },
			wantMsg: "Expected launch date must be a valid date",
		},
		{
			name:    "launch date wrong format",
			mutate:  func(r *dto.SubmitAppRequest) { r.ExpectedLaunchDate = "30/02/2026" },
			wantMsg: "Expected launch date must be a valid date",
		},
		{
			name:    "tag with punctuation",
			mutate:  func(r *dto.SubmitAppRequest) { r.Tags = []string{"voice!"} },
			wantMsg: "Tags can only contain letters, numbers, spaces, and hyphens",
		},
		{
			name:    "single character tag",
			mutate:  func(r *dto.SubmitAppRequest) { r.Tags = []string{"a"} },
			wantMsg: "Tag must be at least 2 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmitRequest()
			tt.mutate(req)
			err := v.Validate(req)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestRegisterRequestPasswordRules(t *testing.T) {
	v := New()

	base := dto.RegisterRequest{
		Email:       "user@example.com",
		Password:    "Sup3rSecret",
		DisplayName: "Sam",
	}
	require.NoError(t, v.Validate(&base))

	weak := base
	weak.Password = "alllowercase1"
	err := v.Validate(&weak)
	require.Error(t, err)
	assert.Equal(t, "Password must contain an uppercase letter, a lowercase letter, and a number", err.Error())

	short := base
	short.Password = "Ab1"
	err = v.Validate(&short)
	require.Error(t, err)
	assert.Equal(t, "Password must be at least 8 characters", err.Error())
}

func TestIsCountryCode(t *testing.T) {
	assert.True(t, IsCountryCode("US"))
	assert.True(t, IsCountryCode("DE"))
	assert.False(t, IsCountryCode("usa"))
	assert.False(t, IsCountryCode("u"))
	assert.False(t, IsCountryCode(""))
	assert.False(t, IsCountryCode("U1"))
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	var req dto.LoginRequest
	err := DecodeStrict([]byte(`{"email":"a@b.com","password":"x","extra":true}`), &req)
	require.Error(t, err)

	err = DecodeStrict([]byte(`{"email":"a@b.com","password":"x"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", req.Email)
}
