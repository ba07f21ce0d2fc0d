package services

import "errors"

// Sentinel errors shared across services. Messages are user-facing; handlers
// pick the HTTP status from the sentinel, not the text.
var (
	ErrRateLimited      = errors.New("too many requests, please slow down and try again")
	ErrQuotaExceeded    = errors.New("daily submission limit reached, please try again tomorrow")
	ErrDuplicateWebsite = errors.New("an app with this website URL already exists")
	ErrDuplicateName    = errors.New("an app with a similar name already exists")
	ErrDuplicateReport  = errors.New("you have already reported this app, our team will review it")
	ErrAppNotFound      = errors.New("app not found")
	ErrReportNotFound   = errors.New("report not found")
	ErrNotOwner         = errors.New("app not found or you do not have permission")
	ErrApprovedLocked   = errors.New("approved apps cannot be edited, contact an admin if changes are needed")
	ErrInvalidMediaURL  = errors.New("media URLs must point at the app-assets storage bucket")
	ErrAlreadyUnlocked  = errors.New("this app is already unlocked")
	ErrNotUnlocked      = errors.New("you must unlock this app to access interested users")
)
