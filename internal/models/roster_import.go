package models

import "time"

// RosterImport records one ingestion run against a campaign.
type RosterImport struct {
	ID            uint        `gorm:"primarykey" json:"id"`
	CampaignID    uint        `gorm:"index;not null" json:"campaign_id"`
	FileName      string      `gorm:"type:varchar(255);not null;default:''" json:"file_name"`
	StoredPath    string      `gorm:"type:varchar(500);not null;default:''" json:"stored_path"`
	Layout        string      `gorm:"type:varchar(20);not null;default:''" json:"layout"`
	CreatedCount  int         `gorm:"not null;default:0" json:"created_count"`
	ExistingCount int         `gorm:"not null;default:0" json:"existing_count"`
	ErrorCount    int         `gorm:"not null;default:0" json:"error_count"`
	Errors        StringArray `gorm:"type:json" json:"errors"`
	CreatedBy     *uint       `gorm:"index" json:"created_by,omitempty"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (RosterImport) TableName() string {
	return "roster_imports"
}
