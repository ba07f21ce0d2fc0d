package dto

import "github.com/google/uuid"

type InterestTimelinePoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type InterestCountryBreakdown struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type InterestedUser struct {
	Email        string  `json:"email"`
	DisplayName  string  `json:"display_name"`
	Country      *string `json:"country"`
	InterestedAt string  `json:"interested_at"`
}

type InterestAnalyticsResponse struct {
	App        AnalyticsAppSummary        `json:"app"`
	Timeline   []InterestTimelinePoint    `json:"timeline"`
	Countries  []InterestCountryBreakdown `json:"countries"`
	IsUnlocked bool                       `json:"is_unlocked"`
}

type AnalyticsAppSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	InterestCount int       `json:"interest_count"`
	IsComingSoon  bool      `json:"is_coming_soon"`
}

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}
