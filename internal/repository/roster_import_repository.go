package repository

import (
	"errors"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// RosterImportRepository ingestion run history
type RosterImportRepository interface {
	Create(item *models.RosterImport) error
	ListByCampaign(campaignID uint, page, pageSize int) ([]models.RosterImport, int64, error)
	WithTx(tx *gorm.DB) *GormRosterImportRepository
}

// GormRosterImportRepository gorm implementation
type GormRosterImportRepository struct {
	db *gorm.DB
}

// NewRosterImportRepository creates the roster import repository.
func NewRosterImportRepository(db *gorm.DB) *GormRosterImportRepository {
	return &GormRosterImportRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormRosterImportRepository) WithTx(tx *gorm.DB) *GormRosterImportRepository {
	if tx == nil {
		return r
	}
	return &GormRosterImportRepository{db: tx}
}

// Create records a run.
func (r *GormRosterImportRepository) Create(item *models.RosterImport) error {
	if item == nil {
		return errors.New("roster import is nil")
	}
	return r.db.Create(item).Error
}

// ListByCampaign returns runs of a campaign, newest first.
func (r *GormRosterImportRepository) ListByCampaign(campaignID uint, page, pageSize int) ([]models.RosterImport, int64, error) {
	if campaignID == 0 {
		return nil, 0, errors.New("invalid campaign id")
	}
	query := r.db.Model(&models.RosterImport{}).Where("campaign_id = ?", campaignID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	items := make([]models.RosterImport, 0)
	if err := query.Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
