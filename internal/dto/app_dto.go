package dto

import (
	"github.com/google/uuid"

	"github.com/voicenative/backend/internal/models"
)

// SubmitAppRequest is the typed submission payload. Handlers decode it with
// unknown fields disallowed; validation tags carry the field constraints.
type SubmitAppRequest struct {
	Name               string   `json:"name" validate:"required,max=100"`
	Tagline            string   `json:"tagline" validate:"required,min=10,max=150"`
	Description        string   `json:"description" validate:"required,min=50,max=2000"`
	CategoryID         string   `json:"category_id" validate:"required,uuid"`
	VoiceFeatures      []string `json:"voice_features" validate:"required,min=1,dive,voicefeature"`
	Platforms          []string `json:"platforms" validate:"required,min=1,dive,oneof=ios android web macos windows linux alexa google_assistant"`
	WebsiteURL         string   `json:"website_url" validate:"required,httpurl"`
	AppStoreURL        string   `json:"app_store_url" validate:"omitempty,httpurl,appstoreurl"`
	PlayStoreURL       string   `json:"play_store_url" validate:"omitempty,httpurl,playstoreurl"`
	OtherDownloadURL   string   `json:"other_download_url" validate:"omitempty,httpurl"`
	DemoVideoURL       string   `json:"demo_video_url" validate:"omitempty,httpurl"`
	LogoURL            string   `json:"logo_url"`
	ScreenshotURLs     []string `json:"screenshot_urls" validate:"max=5"`
	PricingModel       string   `json:"pricing_model" validate:"required,oneof=free freemium paid subscription"`
	PricingDetails     string   `json:"pricing_details" validate:"max=100"`
	IsComingSoon       bool     `json:"is_coming_soon"`
	ExpectedLaunchDate string   `json:"expected_launch_date" validate:"omitempty,isodate"`
	Tags               []string `json:"tags" validate:"max=10,dive,min=2,max=30,tagname"`

	// Honeypot. Hidden on the real form; bots fill it in.
	Website2 string `json:"website2"`
}

type SubmitAppResponse struct {
	ID   uuid.UUID `json:"id"`
	Slug string    `json:"slug"`
}

type ListAppsQuery struct {
	Search   string
	Category string
	Platform string
	Pricing  string
	Sort     string
	Page     int
	PerPage  int
}

type AppListItem struct {
	models.App
	UserHasUpvoted    bool `json:"user_has_upvoted"`
	UserHasInterested bool `json:"user_has_interested"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}
