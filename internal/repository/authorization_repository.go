package repository

import (
	"errors"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// AuthorizationRepository third-party authorization data access
type AuthorizationRepository interface {
	Create(item *models.ThirdPartyAuthorization) error
	GetByID(id uint) (*models.ThirdPartyAuthorization, error)
	ListByWorker(workerID uint, activeOnly bool) ([]models.ThirdPartyAuthorization, error)
	Deactivate(id uint) error
	WithTx(tx *gorm.DB) *GormAuthorizationRepository
}

// GormAuthorizationRepository gorm implementation
type GormAuthorizationRepository struct {
	db *gorm.DB
}

// NewAuthorizationRepository creates the authorization repository.
func NewAuthorizationRepository(db *gorm.DB) *GormAuthorizationRepository {
	return &GormAuthorizationRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormAuthorizationRepository) WithTx(tx *gorm.DB) *GormAuthorizationRepository {
	if tx == nil {
		return r
	}
	return &GormAuthorizationRepository{db: tx}
}

// Create inserts an authorization.
func (r *GormAuthorizationRepository) Create(item *models.ThirdPartyAuthorization) error {
	if item == nil {
		return errors.New("authorization is nil")
	}
	item.AuthorizedDate = models.Day(item.AuthorizedDate)
	return r.db.Create(item).Error
}

// GetByID returns nil when absent.
func (r *GormAuthorizationRepository) GetByID(id uint) (*models.ThirdPartyAuthorization, error) {
	var item models.ThirdPartyAuthorization
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByWorker returns a worker's authorizations, newest first.
func (r *GormAuthorizationRepository) ListByWorker(workerID uint, activeOnly bool) ([]models.ThirdPartyAuthorization, error) {
	query := r.db.Where("worker_id = ?", workerID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	items := make([]models.ThirdPartyAuthorization, 0)
	if err := query.Order("created_at desc, id desc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Deactivate turns an authorization off.
func (r *GormAuthorizationRepository) Deactivate(id uint) error {
	return r.db.Model(&models.ThirdPartyAuthorization{}).Where("id = ?", id).UpdateColumn("active", false).Error
}
