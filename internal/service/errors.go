package service

import (
	"errors"

	"github.com/tresmontes-cajas/internal/roster"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidRUT   = errors.New("invalid rut")
)

// accounts and login
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserDisabled         = errors.New("user disabled")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrWeakPassword         = errors.New("weak password")
	ErrUsernameExists       = errors.New("username already exists")
	ErrRUTExists            = errors.New("rut already registered")
	ErrInvalidRole          = errors.New("invalid role")
	ErrPlantRequired        = errors.New("plant required for role")
	ErrPlantNotFound        = errors.New("plant not found")
	ErrInvalidToken         = errors.New("invalid token")
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// campaigns and rosters
var (
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignNameRequired = errors.New("campaign name required")
	ErrCampaignDateRange    = errors.New("campaign end date before start date")
	ErrRosterFileRequired   = errors.New("roster file required")
	ErrRosterFileTooLarge   = errors.New("roster file too large")
	ErrRosterFileType       = errors.New("roster file type not allowed")
	ErrMalformedFile        = roster.ErrMalformedFile
	ErrNoRowsCreated        = errors.New("no workers created")
	ErrDuplicateClaimCode   = errors.New("duplicate claim code")
)

// blocked dates
var (
	ErrBlockedDateNotFound   = errors.New("blocked date not found")
	ErrBlockedDateExists     = errors.New("date already blocked")
	ErrBlockedDateOutOfRange = errors.New("blocked date outside campaign range")
)

// pickups, authorizations and schedules
var (
	ErrWorkerNotFound         = errors.New("worker not found")
	ErrPickupNotFound         = errors.New("pickup not found")
	ErrAlreadyPickedUp        = errors.New("box already picked up")
	ErrPickupDayBlocked       = errors.New("pickups blocked today")
	ErrCampaignNotActive      = errors.New("campaign not active today")
	ErrPlantMismatch          = errors.New("worker belongs to another plant")
	ErrThirdPartyDataRequired = errors.New("third party name and rut required")
	ErrInvalidClaimCode       = errors.New("invalid claim code")
	ErrNoteRequired           = errors.New("note required")
	ErrAuthorizationNotFound  = errors.New("authorization not found")
	ErrScheduleExists         = errors.New("pickup already scheduled for date")
	ErrScheduleInPast         = errors.New("schedule date in the past")
)

// reports and background jobs
var (
	ErrExportKindInvalid = errors.New("invalid export kind")
	ErrQueueUnavailable  = errors.New("queue unavailable")
)
