package models

import "time"

// Campaign is one distribution round owned by a plant.
type Campaign struct {
	ID           uint          `gorm:"primarykey" json:"id"`
	Name         string        `gorm:"type:varchar(200);not null" json:"name"`
	StartDate    time.Time     `gorm:"index;not null" json:"start_date"` // midnight UTC
	EndDate      time.Time     `gorm:"index;not null" json:"end_date"`   // midnight UTC, inclusive
	PlantID      uint          `gorm:"index;not null" json:"plant_id"`
	Plant        *Plant        `gorm:"foreignKey:PlantID" json:"plant,omitempty"`
	Active       bool          `gorm:"not null;default:true;index" json:"active"`
	RosterFile   string        `gorm:"type:varchar(500);default:''" json:"roster_file"` // stored upload path
	CreatedBy    *uint         `gorm:"index" json:"created_by,omitempty"`
	BlockedDates []BlockedDate `gorm:"foreignKey:CampaignID" json:"blocked_dates,omitempty"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName sets the table name.
func (Campaign) TableName() string {
	return "campaigns"
}

// Covers reports whether day falls inside the campaign range.
func (c *Campaign) Covers(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(c.StartDate)) && !d.After(Day(c.EndDate))
}
