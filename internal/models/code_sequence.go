package models

import "time"

// CodeSequence is the claim-code counter of one (date prefix, plant short code) bucket.
// Claim codes are globally unique, so campaigns sharing a start date and plant share it.
type CodeSequence struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	DatePrefix string    `gorm:"type:varchar(4);not null;uniqueIndex:idx_code_sequence_bucket" json:"date_prefix"`
	ShortCode  string    `gorm:"type:varchar(3);not null;uniqueIndex:idx_code_sequence_bucket" json:"short_code"`
	LastValue  int       `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (CodeSequence) TableName() string {
	return "code_sequences"
}
