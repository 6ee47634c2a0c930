package constants

// Account roles
const (
	RoleAdmin  = "admin"
	RoleGuard  = "guardia"
	RoleWorker = "trabajador"
)

// Contract types
const (
	ContractPermanent = "indefinido"
	ContractFixedTerm = "plazo_fijo"
)

// Box tiers
const (
	BoxTierStandard = "estandar"
	BoxTierSpecial  = "especial"
	BoxTierPremium  = "premium"
)

// Report periods
const (
	PeriodToday = "hoy"
	PeriodWeek  = "semana"
	PeriodMonth = "mes"
	PeriodYear  = "anio"
)

// Pickup trace notes
const (
	PickupNoteQRScan          = "Entrega registrada mediante escaneo QR"
	PickupNoteThirdPartyTrace = "Retirado por: %s (RUT: %s)"
)

// Audit actions
const (
	AuditActionUserCreate      = "user_create"
	AuditActionUserUpdate      = "user_update"
	AuditActionUserDeactivate  = "user_deactivate"
	AuditActionPasswordReset   = "user_password_reset"
	AuditActionCampaignCreate  = "campaign_create"
	AuditActionCampaignDelete  = "campaign_delete"
	AuditActionCampaignToggle  = "campaign_toggle"
	AuditActionRosterImport    = "roster_import"
	AuditActionDateBlock       = "blocked_date_add"
	AuditActionDateUnblock     = "blocked_date_remove"
	AuditActionRenumberRequest = "claim_code_renumber"
	AuditActionExportRequest   = "report_export_request"
	AuditActionRoleCreate      = "role_create"
	AuditActionRoleDelete      = "role_delete"
	AuditActionPolicyGrant     = "policy_grant"
	AuditActionPolicyRevoke    = "policy_revoke"
)

// Queues and task types
const (
	QueueDefault          = "default"
	TaskClaimCodeRenumber = "claimcode:renumber"
	TaskReportExport      = "report:export"
)

// Export kinds
const (
	ExportDelivered = "entregados"
	ExportPending   = "no_retirados"
)

// Login log
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"

	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonUserDisabled       = "user_disabled"
	LoginLogFailReasonCaptchaRequired    = "captcha_required"
	LoginLogFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginLogFailReasonInternalError      = "internal_error"
)
