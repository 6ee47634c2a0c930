package models

import "time"

// Worker is a person eligible for a box in one campaign.
// RUT is unique per campaign; ClaimCode is globally unique and set once at creation.
type Worker struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CampaignID   uint      `gorm:"not null;uniqueIndex:idx_worker_campaign_rut" json:"campaign_id"`
	Campaign     *Campaign `gorm:"foreignKey:CampaignID" json:"campaign,omitempty"`
	RUT          string    `gorm:"type:varchar(12);not null;uniqueIndex:idx_worker_campaign_rut" json:"rut"`
	Name         string    `gorm:"type:varchar(200);not null" json:"name"`
	ContractType string    `gorm:"type:varchar(20);not null" json:"contract_type"`
	BoxTier      string    `gorm:"type:varchar(20);not null;default:'estandar'" json:"box_tier"`
	PlantID      uint      `gorm:"index;not null" json:"plant_id"`
	Plant        *Plant    `gorm:"foreignKey:PlantID" json:"plant,omitempty"`
	ClaimCode    string    `gorm:"type:varchar(15);uniqueIndex;not null" json:"claim_code"`
	Pickup       *Pickup   `gorm:"foreignKey:WorkerID" json:"pickup,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Worker) TableName() string {
	return "workers"
}

// PickedUp reports whether a pickup is attached.
func (w *Worker) PickedUp() bool {
	return w != nil && w.Pickup != nil && w.Pickup.ID != 0
}
