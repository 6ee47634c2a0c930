package models

import "time"

// PickupSchedule is a pickup date booked by a worker.
type PickupSchedule struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	WorkerID       uint       `gorm:"index;not null" json:"worker_id"`
	ScheduledDate  time.Time  `gorm:"index;not null" json:"scheduled_date"`
	ConfirmedToday bool       `gorm:"not null;default:false" json:"confirmed_today"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TableName sets the table name.
func (PickupSchedule) TableName() string {
	return "pickup_schedules"
}
