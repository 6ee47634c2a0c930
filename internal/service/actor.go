package service

import "github.com/tresmontes-cajas/internal/constants"

// Actor is the authenticated caller of an operation. Services never read session state.
type Actor struct {
	UserID    uint
	Username  string
	Role      string
	PlantID   uint
	RUT       string
	RequestID string
}

// IsAdmin reports the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin
}

// ScopedPlant returns the plant an actor is restricted to; 0 means every plant.
func (a Actor) ScopedPlant() uint {
	if a.IsAdmin() {
		return 0
	}
	return a.PlantID
}

func (a Actor) userIDPtr() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}
