package models

import "time"

// AuditLog records administrative changes: accounts, roles, campaigns and blocked dates.
type AuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorUserID   uint      `gorm:"index;not null" json:"operator_user_id"`
	OperatorUsername string    `gorm:"type:varchar(150);index;not null;default:''" json:"operator_username"`
	TargetUserID     *uint     `gorm:"index" json:"target_user_id,omitempty"`
	CampaignID       *uint     `gorm:"index" json:"campaign_id,omitempty"`
	Action           string    `gorm:"type:varchar(100);index;not null" json:"action"`
	Role             string    `gorm:"type:varchar(20);index;not null;default:''" json:"role"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (AuditLog) TableName() string {
	return "audit_logs"
}
