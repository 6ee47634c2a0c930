package repository

import (
	"errors"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// PickupRepository pickup data access. Pickups are insert-once; only notes and
// renumbered codes change afterwards.
type PickupRepository interface {
	Create(pickup *models.Pickup) error
	GetByID(id uint) (*models.Pickup, error)
	GetByWorkerID(workerID uint) (*models.Pickup, error)
	UpdateNotes(id uint, notes string) error
	UpdateClaimCode(id uint, code string) error
	ListChronological() ([]models.Pickup, error)
	ListRecentByPlant(plantID uint, limit int) ([]models.Pickup, error)
	WithTx(tx *gorm.DB) *GormPickupRepository
}

// GormPickupRepository gorm implementation
type GormPickupRepository struct {
	db *gorm.DB
}

// NewPickupRepository creates the pickup repository.
func NewPickupRepository(db *gorm.DB) *GormPickupRepository {
	return &GormPickupRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormPickupRepository) WithTx(tx *gorm.DB) *GormPickupRepository {
	if tx == nil {
		return r
	}
	return &GormPickupRepository{db: tx}
}

// Create inserts a pickup.
func (r *GormPickupRepository) Create(pickup *models.Pickup) error {
	if pickup == nil {
		return errors.New("pickup is nil")
	}
	return r.db.Omit("Worker", "Confirmer").Create(pickup).Error
}

// GetByID loads the pickup with its worker and confirmer.
func (r *GormPickupRepository) GetByID(id uint) (*models.Pickup, error) {
	var pickup models.Pickup
	if err := r.db.Preload("Worker").Preload("Confirmer").First(&pickup, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pickup, nil
}

// GetByWorkerID returns nil when the worker has not picked up.
func (r *GormPickupRepository) GetByWorkerID(workerID uint) (*models.Pickup, error) {
	var pickup models.Pickup
	if err := r.db.Where("worker_id = ?", workerID).First(&pickup).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pickup, nil
}

// UpdateNotes replaces the notes column.
func (r *GormPickupRepository) UpdateNotes(id uint, notes string) error {
	return r.db.Model(&models.Pickup{}).Where("id = ?", id).UpdateColumn("notes", notes).Error
}

// UpdateClaimCode rewrites the copied code.
func (r *GormPickupRepository) UpdateClaimCode(id uint, code string) error {
	return r.db.Model(&models.Pickup{}).Where("id = ?", id).UpdateColumn("claim_code", code).Error
}

// ListChronological returns every pickup by picked_up_at, ties by id, with worker and plant.
func (r *GormPickupRepository) ListChronological() ([]models.Pickup, error) {
	pickups := make([]models.Pickup, 0)
	err := r.db.Preload("Worker").Preload("Worker.Plant").
		Order("picked_up_at asc, id asc").
		Find(&pickups).Error
	if err != nil {
		return nil, err
	}
	return pickups, nil
}

// ListRecentByPlant returns the latest confirmations at a plant.
func (r *GormPickupRepository) ListRecentByPlant(plantID uint, limit int) ([]models.Pickup, error) {
	if limit <= 0 {
		limit = 10
	}
	query := r.db.Preload("Worker").Preload("Confirmer")
	if plantID != 0 {
		query = query.Where("plant_id = ?", plantID)
	}
	pickups := make([]models.Pickup, 0)
	if err := query.Order("picked_up_at desc, id desc").Limit(limit).Find(&pickups).Error; err != nil {
		return nil, err
	}
	return pickups, nil
}
