package models

import "time"

// Plant is a physical site. Seed data.
type Plant struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // slug
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName sets the table name.
func (Plant) TableName() string {
	return "plants"
}
