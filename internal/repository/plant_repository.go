package repository

import (
	"errors"
	"strings"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// PlantRepository plant data access
type PlantRepository interface {
	List(activeOnly bool) ([]models.Plant, error)
	GetByID(id uint) (*models.Plant, error)
	GetByCode(code string) (*models.Plant, error)
	WithTx(tx *gorm.DB) *GormPlantRepository
}

// GormPlantRepository gorm implementation
type GormPlantRepository struct {
	db *gorm.DB
}

// NewPlantRepository creates the plant repository.
func NewPlantRepository(db *gorm.DB) *GormPlantRepository {
	return &GormPlantRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormPlantRepository) WithTx(tx *gorm.DB) *GormPlantRepository {
	if tx == nil {
		return r
	}
	return &GormPlantRepository{db: tx}
}

// List returns plants ordered by id.
func (r *GormPlantRepository) List(activeOnly bool) ([]models.Plant, error) {
	query := r.db.Model(&models.Plant{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	plants := make([]models.Plant, 0)
	if err := query.Order("id asc").Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

// GetByID returns nil when absent.
func (r *GormPlantRepository) GetByID(id uint) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.First(&plant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plant, nil
}

// GetByCode returns nil when absent.
func (r *GormPlantRepository) GetByCode(code string) (*models.Plant, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	var plant models.Plant
	if err := r.db.Where("code = ?", code).First(&plant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plant, nil
}
