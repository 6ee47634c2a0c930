package models

import "time"

// ThirdPartyAuthorization lets a named third party collect a worker's box.
type ThirdPartyAuthorization struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	WorkerID       uint      `gorm:"index;not null" json:"worker_id"`
	Name           string    `gorm:"type:varchar(200);not null" json:"name"`
	RUT            string    `gorm:"type:varchar(12);not null" json:"rut"`
	AuthorizedDate time.Time `gorm:"index;not null" json:"authorized_date"`
	SingleUse      bool      `gorm:"not null;default:true" json:"single_use"` // only on AuthorizedDate when true, from it onward otherwise
	Active         bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (ThirdPartyAuthorization) TableName() string {
	return "third_party_authorizations"
}

// ValidFor reports whether the authorization applies on day.
func (a *ThirdPartyAuthorization) ValidFor(day time.Time) bool {
	if a == nil || !a.Active {
		return false
	}
	d := Day(day)
	authorized := Day(a.AuthorizedDate)
	if a.SingleUse {
		return d.Equal(authorized)
	}
	return !d.Before(authorized)
}
