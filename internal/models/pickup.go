package models

import "time"

// Pickup is the confirmed delivery of a worker's box. At most one per worker;
// after creation only Notes may grow.
type Pickup struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	WorkerID       uint      `gorm:"not null;uniqueIndex" json:"worker_id"`
	Worker         *Worker   `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	PlantID        uint      `gorm:"index;not null" json:"plant_id"` // plant where it was confirmed
	PickedUpAt     time.Time `gorm:"index;not null" json:"picked_up_at"`
	ConfirmedBy    *uint     `gorm:"index" json:"confirmed_by,omitempty"`
	Confirmer      *User     `gorm:"foreignKey:ConfirmedBy" json:"confirmer,omitempty"`
	Notes          string    `gorm:"type:text" json:"notes"`
	ByThirdParty   bool      `gorm:"not null;default:false" json:"by_third_party"`
	ThirdPartyName string    `gorm:"type:varchar(200);default:''" json:"third_party_name"`
	ThirdPartyRUT  string    `gorm:"type:varchar(12);default:''" json:"third_party_rut"`
	ClaimCode      string    `gorm:"type:varchar(15);uniqueIndex;not null" json:"claim_code"` // copied from the worker
}

// TableName sets the table name.
func (Pickup) TableName() string {
	return "pickups"
}
