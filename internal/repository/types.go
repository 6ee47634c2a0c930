package repository

import "time"

// UserListFilter filters the account list.
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	PlantID  uint
	Search   string
	IsActive *bool
}

// CampaignListFilter filters the campaign list.
type CampaignListFilter struct {
	Page       int
	PageSize   int
	PlantID    uint
	Active     *bool
	Search     string
	WithPlant  bool
	OverlapsOn *time.Time
}

// Worker delivery states used by WorkerListFilter.
const (
	WorkerStatusDelivered = "entregado"
	WorkerStatusPending   = "pendiente"
)

// WorkerListFilter filters the workers of one campaign.
type WorkerListFilter struct {
	Page       int
	PageSize   int
	CampaignID uint
	PlantID    uint
	Status     string // entregado | pendiente | ""
	Search     string // name, rut or claim code
}

// AuditLogListFilter filters audit log entries.
type AuditLogListFilter struct {
	Page           int
	PageSize       int
	OperatorUserID uint
	TargetUserID   uint
	CampaignID     uint
	Action         string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// UserLoginLogListFilter login log query.
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Username    string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
