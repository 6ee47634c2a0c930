package shared

import (
	"errors"

	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/i18n"
	"github.com/tresmontes-cajas/internal/roster"
	"github.com/tresmontes-cajas/internal/rut"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

// keyedError carries its own message key, e.g. password policy violations.
type keyedError interface {
	error
	Key() string
	Args() []interface{}
}

// MappedError maps a business error to a response code and message key.
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// rutErrorRules precede ErrInvalidRUT so the message names the exact failure.
var rutErrorRules = []MappedError{
	{Target: rut.ErrChecksumMismatch, Code: response.CodeBadRequest, Key: "error.rut_checksum"},
	{Target: rut.ErrInvalidLength, Code: response.CodeBadRequest, Key: "error.rut_length"},
	{Target: rut.ErrInvalidFormat, Code: response.CodeBadRequest, Key: "error.rut_format"},
	{Target: service.ErrInvalidRUT, Code: response.CodeBadRequest, Key: "error.rut_invalid"},
}

// DomainErrorRules covers every service sentinel a handler can surface.
var DomainErrorRules = ConcatMappedErrors(rutErrorRules, []MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Key: "error.token_invalid"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_old_invalid"},
	{Target: service.ErrWeakPassword, Code: response.CodeBadRequest, Key: "error.password_weak"},
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
	{Target: service.ErrRUTExists, Code: response.CodeConflict, Key: "error.rut_exists"},
	{Target: service.ErrInvalidRole, Code: response.CodeBadRequest, Key: "error.role_invalid"},
	{Target: service.ErrPlantRequired, Code: response.CodeBadRequest, Key: "error.plant_required"},
	{Target: service.ErrPlantNotFound, Code: response.CodeNotFound, Key: "error.plant_not_found"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},

	{Target: service.ErrCampaignNotFound, Code: response.CodeNotFound, Key: "error.campaign_not_found"},
	{Target: service.ErrCampaignNameRequired, Code: response.CodeBadRequest, Key: "error.campaign_name_required"},
	{Target: service.ErrCampaignDateRange, Code: response.CodeBadRequest, Key: "error.campaign_date_range"},
	{Target: service.ErrRosterFileRequired, Code: response.CodeBadRequest, Key: "error.roster_file_required"},
	{Target: service.ErrRosterFileTooLarge, Code: response.CodeBadRequest, Key: "error.roster_file_too_large"},
	{Target: service.ErrRosterFileType, Code: response.CodeBadRequest, Key: "error.roster_file_type"},
	{Target: roster.ErrEmptyFile, Code: response.CodeUnprocessable, Key: "error.roster_empty"},
	{Target: roster.ErrUnreadableSpreadsheet, Code: response.CodeUnprocessable, Key: "error.roster_unreadable"},
	{Target: service.ErrMalformedFile, Code: response.CodeUnprocessable, Key: "error.roster_malformed"},
	{Target: service.ErrNoRowsCreated, Code: response.CodeUnprocessable, Key: "error.roster_no_rows"},
	{Target: service.ErrDuplicateClaimCode, Code: response.CodeConflict, Key: "error.claim_code_duplicate"},

	{Target: service.ErrBlockedDateNotFound, Code: response.CodeNotFound, Key: "error.blocked_date_not_found"},
	{Target: service.ErrBlockedDateExists, Code: response.CodeConflict, Key: "error.blocked_date_exists"},
	{Target: service.ErrBlockedDateOutOfRange, Code: response.CodeBadRequest, Key: "error.blocked_date_out_of_range"},

	{Target: service.ErrWorkerNotFound, Code: response.CodeNotFound, Key: "error.worker_not_found"},
	{Target: service.ErrPickupNotFound, Code: response.CodeNotFound, Key: "error.pickup_not_found"},
	{Target: service.ErrAlreadyPickedUp, Code: response.CodeConflict, Key: "error.already_picked_up"},
	{Target: service.ErrPickupDayBlocked, Code: response.CodeConflict, Key: "error.pickup_day_blocked"},
	{Target: service.ErrCampaignNotActive, Code: response.CodeConflict, Key: "error.campaign_not_active"},
	{Target: service.ErrPlantMismatch, Code: response.CodeForbidden, Key: "error.plant_mismatch"},
	{Target: service.ErrThirdPartyDataRequired, Code: response.CodeBadRequest, Key: "error.third_party_required"},
	{Target: service.ErrInvalidClaimCode, Code: response.CodeBadRequest, Key: "error.claim_code_invalid"},
	{Target: service.ErrNoteRequired, Code: response.CodeBadRequest, Key: "error.note_required"},
	{Target: service.ErrAuthorizationNotFound, Code: response.CodeNotFound, Key: "error.authorization_not_found"},
	{Target: service.ErrScheduleExists, Code: response.CodeConflict, Key: "error.schedule_exists"},
	{Target: service.ErrScheduleInPast, Code: response.CodeBadRequest, Key: "error.schedule_in_past"},

	{Target: service.ErrExportKindInvalid, Code: response.CodeBadRequest, Key: "error.export_kind_invalid"},
	{Target: service.ErrQueueUnavailable, Code: response.CodeConflict, Key: "error.queue_unavailable"},

	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
})

// RespondWithMappedError writes the first matching rule, or the fallback with err logged.
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// RespondServiceError maps err through DomainErrorRules, falling back to an internal error.
func RespondServiceError(c *gin.Context, err error) {
	var keyed keyedError
	if errors.As(err, &keyed) {
		msg := i18n.Sprintf(i18n.ResolveLocale(c), keyed.Key(), keyed.Args()...)
		RespondErrorWithMsg(c, response.CodeBadRequest, msg, err)
		return
	}
	RespondWithMappedError(c, err, DomainErrorRules, response.CodeInternal, "error.internal")
}

// ConcatMappedErrors joins rule groups in order.
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
