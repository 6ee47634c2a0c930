package models

import "time"

// UserLoginLog one login attempt. UserID is 0 when the username matched no account.
type UserLoginLog struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	Username   string    `gorm:"type:varchar(150);index;not null" json:"username"`
	Status     string    `gorm:"type:varchar(16);index;not null" json:"status"`
	FailReason string    `gorm:"type:varchar(32);index" json:"fail_reason"`
	ClientIP   string    `gorm:"type:varchar(64);index" json:"client_ip"`
	UserAgent  string    `gorm:"type:text" json:"user_agent"`
	RequestID  string    `gorm:"type:varchar(64);index" json:"request_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName table name
func (UserLoginLog) TableName() string {
	return "user_login_logs"
}
