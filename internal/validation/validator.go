package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/voicenative/backend/internal/models"
)

var (
	appStoreURLPattern  = regexp.MustCompile(`^https://apps\.apple\.com/.+`)
	playStoreURLPattern = regexp.MustCompile(`^https://play\.google\.com/store/apps/.+`)
	tagNamePattern      = regexp.MustCompile(`^[a-zA-Z0-9\s\-]+$`)
	isoDatePattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	countryCodePattern  = regexp.MustCompile(`^[A-Z]{2}$`)
	upperPattern        = regexp.MustCompile(`[A-Z]`)
	lowerPattern        = regexp.MustCompile(`[a-z]`)
	digitPattern        = regexp.MustCompile(`[0-9]`)
)

// Validator wraps go-playground/validator with the directory's custom rules.
// Validate surfaces only the first violated constraint, as a user-facing
// message.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("httpurl", validateHTTPURL)
	v.RegisterValidation("appstoreurl", func(fl validator.FieldLevel) bool {
		return appStoreURLPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("playstoreurl", func(fl validator.FieldLevel) bool {
		return playStoreURLPattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tagNamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("isodate", validateISODate)
	v.RegisterValidation("voicefeature", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, feature := range models.VoiceFeatures {
			if feature == value {
				return true
			}
		}
		return false
	})
	v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return upperPattern.MatchString(value) && lowerPattern.MatchString(value) && digitPattern.MatchString(value)
	})
	v.RegisterValidation("countrycode", func(fl validator.FieldLevel) bool {
		return countryCodePattern.MatchString(fl.Field().String())
	})

	return &Validator{validate: v}
}

// javascript: and data: URLs parse fine, so scheme must be checked explicitly.
func validateHTTPURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func validateISODate(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if !isoDatePattern.MatchString(raw) {
		return false
	}
	_, err := time.Parse("2006-01-02", raw)
	return err == nil
}

// Validate checks the struct and returns the first violation as an error with
// a user-facing message, or nil.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return errors.New("invalid input")
	}
	return errors.New(messageFor(validationErrors[0]))
}

func messageFor(fe validator.FieldError) string {
	// Slice element errors report the field as "Tags[0]"; strip the index so
	// they map to the same message as the parent field.
	field := fe.StructField()
	if i := strings.Index(field, "["); i >= 0 {
		field = field[:i]
	}
	switch field {
	case "Name":
		if fe.Tag() == "required" {
			return "Name is required"
		}
		return "Name must be under 100 characters"
	case "Tagline":
		if fe.Tag() == "max" {
			return "Tagline must be under 150 characters"
		}
		return "Tagline must be at least 10 characters"
	case "Description":
		if fe.Tag() == "max" {
			return "Description must be under 2000 characters"
		}
		return "Description must be at least 50 characters"
	case "CategoryID":
		return "Please select a category"
	case "VoiceFeatures":
		if fe.Tag() == "voicefeature" {
			return "Unknown voice feature selected"
		}
		return "Select at least one voice feature"
	case "Platforms":
		if fe.Tag() == "oneof" {
			return "Unknown platform selected"
		}
		return "Select at least one platform"
	case "WebsiteURL":
		return "URL must start with https:// or http://"
	case "AppStoreURL":
		return "Must be a valid App Store URL"
	case "PlayStoreURL":
		return "Must be a valid Play Store URL"
	case "OtherDownloadURL", "DemoVideoURL":
		return "URL must start with https:// or http://"
	case "ScreenshotURLs":
		return "Maximum 5 screenshots"
	case "PricingModel":
		return "Please select a pricing model"
	case "PricingDetails":
		return "Pricing details must be under 100 characters"
	case "ExpectedLaunchDate":
		return "Expected launch date must be a valid date"
	case "Tags":
		switch fe.Tag() {
		case "max":
			if fe.Kind().String() == "slice" {
				return "Maximum 10 tags"
			}
			return "Tag must be under 30 characters"
		case "min":
			return "Tag must be at least 2 characters"
		default:
			return "Tags can only contain letters, numbers, spaces, and hyphens"
		}
	case "AppID":
		return "Invalid app id"
	case "Reason":
		return "Please select a report reason"
	case "Details":
		if fe.Tag() == "max" {
			return "Details must be under 500 characters"
		}
		return "Please provide at least 10 characters of detail"
	case "Email":
		return "Please enter a valid email"
	case "Password":
		if fe.Tag() == "password" {
			return "Password must contain an uppercase letter, a lowercase letter, and a number"
		}
		if fe.Tag() == "min" {
			return "Password must be at least 8 characters"
		}
		return "Password is required"
	case "DisplayName":
		if fe.Tag() == "max" {
			return "Display name must be under 50 characters"
		}
		return "Display name must be at least 2 characters"
	}
	return fmt.Sprintf("Invalid value for %s", fe.Field())
}

// IsCountryCode reports whether s is a two-letter uppercase country code.
func IsCountryCode(s string) bool {
	return countryCodePattern.MatchString(s)
}

// DecodeStrict unmarshals JSON rejecting unknown fields, so payloads carrying
// fields outside the declared schema fail instead of being silently dropped.
func DecodeStrict(data []byte, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
