package models

import (
	"time"
)

// User is an account. Admins see every plant, guards confirm pickups at their own plant,
// workers only see their own boxes.
type User struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	Username           string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash       string     `gorm:"not null" json:"-"`
	Role               string     `gorm:"type:varchar(20);index;not null" json:"role"` // admin | guardia | trabajador
	PlantID            *uint      `gorm:"index" json:"plant_id,omitempty"`
	Plant              *Plant     `gorm:"foreignKey:PlantID" json:"plant,omitempty"`
	RUT                *string    `gorm:"type:varchar(12);uniqueIndex" json:"rut,omitempty"` // canonical NN.NNN.NNN-D
	FullName           string     `gorm:"type:varchar(200);not null;default:''" json:"full_name"`
	Email              string     `gorm:"type:varchar(254);default:''" json:"email"`
	IsActive           bool       `gorm:"not null;default:true;index" json:"is_active"`
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"` // bumped to revoke tokens
	TokenInvalidBefore *time.Time `gorm:"index" json:"-"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// RUTValue returns the RUT or an empty string.
func (u *User) RUTValue() string {
	if u == nil || u.RUT == nil {
		return ""
	}
	return *u.RUT
}
