package repository

import (
	"errors"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// BlockedDateRepository blocked-date data access
type BlockedDateRepository interface {
	Create(item *models.BlockedDate) error
	GetByID(id uint) (*models.BlockedDate, error)
	GetByCampaignAndDate(campaignID uint, day time.Time) (*models.BlockedDate, error)
	ListByCampaign(campaignID uint) ([]models.BlockedDate, error)
	Exists(campaignID uint, day time.Time) (bool, error)
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormBlockedDateRepository
}

// GormBlockedDateRepository gorm implementation
type GormBlockedDateRepository struct {
	db *gorm.DB
}

// NewBlockedDateRepository creates the blocked-date repository.
func NewBlockedDateRepository(db *gorm.DB) *GormBlockedDateRepository {
	return &GormBlockedDateRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormBlockedDateRepository) WithTx(tx *gorm.DB) *GormBlockedDateRepository {
	if tx == nil {
		return r
	}
	return &GormBlockedDateRepository{db: tx}
}

// Create inserts a blocked date, normalizing it to midnight UTC.
func (r *GormBlockedDateRepository) Create(item *models.BlockedDate) error {
	if item == nil {
		return errors.New("blocked date is nil")
	}
	item.Date = models.Day(item.Date)
	return r.db.Create(item).Error
}

// GetByID returns nil when absent.
func (r *GormBlockedDateRepository) GetByID(id uint) (*models.BlockedDate, error) {
	var item models.BlockedDate
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetByCampaignAndDate returns nil when the day is not blocked.
func (r *GormBlockedDateRepository) GetByCampaignAndDate(campaignID uint, day time.Time) (*models.BlockedDate, error) {
	var item models.BlockedDate
	err := r.db.Where("campaign_id = ? AND date = ?", campaignID, models.Day(day)).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByCampaign returns blocked dates in calendar order.
func (r *GormBlockedDateRepository) ListByCampaign(campaignID uint) ([]models.BlockedDate, error) {
	items := make([]models.BlockedDate, 0)
	if err := r.db.Where("campaign_id = ?", campaignID).Order("date asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Exists reports whether day is blocked for the campaign.
func (r *GormBlockedDateRepository) Exists(campaignID uint, day time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.BlockedDate{}).
		Where("campaign_id = ? AND date = ?", campaignID, models.Day(day)).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a blocked date.
func (r *GormBlockedDateRepository) Delete(id uint) error {
	return r.db.Delete(&models.BlockedDate{}, id).Error
}
