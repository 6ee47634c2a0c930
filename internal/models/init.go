package models

import (
	"errors"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPlants is the fixed plant catalogue.
var DefaultPlants = []Plant{
	{Code: "casablanca", Name: "Casa Blanca", Active: true},
	{Code: "valparaiso_bif", Name: "Valparaíso Planta BIF", Active: true},
	{Code: "valparaiso_bic", Name: "Valparaíso Planta BIC", Active: true},
}

// EnsurePlants creates missing catalogue plants.
func EnsurePlants(db *gorm.DB) error {
	for _, plant := range DefaultPlants {
		var existing Plant
		err := db.Where("code = ?", plant.Code).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		item := plant
		if err := db.Create(&item).Error; err != nil {
			return err
		}
		logger.Infow("plant_seeded", "code", item.Code, "id", item.ID)
	}
	return nil
}

// InitDefaultAdmin creates the first admin account when no admin exists.
func InitDefaultAdmin(username, password string) error {
	var count int64
	if err := DB.Model(&User{}).Where("role = ?", constants.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	defaultPassword := password == ""
	if defaultPassword {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
		FullName:     "Administrador",
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if defaultPassword {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}
