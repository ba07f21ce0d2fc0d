package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing lifecycle states. A listing is created pending, moves to approved
// or rejected by an admin action only, and returns to pending when the owner
// edits it.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Pricing models accepted for a listing.
var PricingModels = []string{"free", "freemium", "paid", "subscription"}

// Platforms a listing may declare support for.
var Platforms = []string{"ios", "android", "web", "macos", "windows", "linux", "alexa", "google_assistant"}

// VoiceFeatures is the fixed feature taxonomy shown on submission forms.
var VoiceFeatures = []string{
	"Voice Commands",
	"Voice Search",
	"Voice Navigation",
	"Voice Input/Dictation",
	"Voice Responses/TTS",
	"Conversational AI",
	"Voice Authentication",
	"Voice Control (Smart Home)",
	"Voice Translation",
	"Voice Notes/Memos",
	"Voice Shopping",
	"Voice Gaming",
	"Accessibility (Screen Reader)",
	"Custom Wake Word",
	"Multi-language Voice",
}

// App is a directory listing. Array-valued fields are stored as JSON columns
// so the same model works against PostgreSQL and the SQLite test harness.
type App struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SubmittedBy        uuid.UUID      `gorm:"type:uuid;not null;index" json:"submitted_by"`
	Name               string         `gorm:"not null;size:100" json:"name"`
	Slug               string         `gorm:"not null;size:120;uniqueIndex" json:"slug"`
	Tagline            string         `gorm:"not null;size:150" json:"tagline"`
	Description        string         `gorm:"type:text;not null" json:"description"`
	CategoryID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"category_id"`
	VoiceFeatures      datatypes.JSON `gorm:"type:jsonb" json:"voice_features"`
	Platforms          datatypes.JSON `gorm:"type:jsonb" json:"platforms"`
	WebsiteURL         string         `gorm:"not null;size:500;index" json:"website_url"`
	AppStoreURL        *string        `gorm:"size:500" json:"app_store_url"`
	PlayStoreURL       *string        `gorm:"size:500" json:"play_store_url"`
	OtherDownloadURL   *string        `gorm:"size:500" json:"other_download_url"`
	DemoVideoURL       *string        `gorm:"size:500" json:"demo_video_url"`
	LogoURL            string         `gorm:"size:500" json:"logo_url"`
	ScreenshotURLs     datatypes.JSON `gorm:"type:jsonb" json:"screenshot_urls"`
	PricingModel       string         `gorm:"not null;size:20" json:"pricing_model"`
	PricingDetails     *string        `gorm:"size:100" json:"pricing_details"`
	Status             string         `gorm:"not null;default:'pending';size:20;index" json:"status"`
	RejectionReason    *string        `gorm:"size:500" json:"rejection_reason"`
	Featured           bool           `gorm:"default:false;index" json:"featured"`
	IsComingSoon       bool           `gorm:"default:false" json:"is_coming_soon"`
	ExpectedLaunchDate *string        `gorm:"size:10" json:"expected_launch_date"`
	InterestCount      int            `gorm:"default:0" json:"interest_count"`
	UpvoteCount        int            `gorm:"default:0" json:"upvote_count"`
	ViewCount          int            `gorm:"default:0" json:"view_count"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (a *App) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
