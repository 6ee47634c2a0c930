package models

import "time"

// Block reasons.
const (
	BlockReasonEmergency   = "emergencia"
	BlockReasonHoliday     = "feriado"
	BlockReasonMaintenance = "mantenimiento"
	BlockReasonOther       = "otro"
)

// BlockedDate is a day on which pickups are disallowed.
type BlockedDate struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CampaignID  uint      `gorm:"not null;uniqueIndex:idx_blocked_campaign_date" json:"campaign_id"`
	Date        time.Time `gorm:"not null;uniqueIndex:idx_blocked_campaign_date" json:"date"`
	Reason      string    `gorm:"type:varchar(20);not null;default:'emergencia'" json:"reason"`
	Description string    `gorm:"type:text" json:"description"`
	BlockedBy   *uint     `gorm:"index" json:"blocked_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName sets the table name.
func (BlockedDate) TableName() string {
	return "blocked_dates"
}
