package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// WorkerRepository worker data access
type WorkerRepository interface {
	Create(worker *models.Worker) error
	GetByID(id uint) (*models.Worker, error)
	GetByCampaignAndRUT(campaignID uint, rut string) (*models.Worker, error)
	GetByClaimCode(code string) (*models.Worker, error)
	ListByRUTActiveOn(rut string, day time.Time) ([]models.Worker, error)
	ListByRUTInActiveCampaigns(rut string) ([]models.Worker, error)
	List(filter WorkerListFilter) ([]models.Worker, int64, error)
	ListClaimCodesLike(fragment string) ([]string, error)
	UpdateClaimCode(id uint, code string) error
	WithTx(tx *gorm.DB) *GormWorkerRepository
}

// GormWorkerRepository gorm implementation
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates the worker repository.
func NewWorkerRepository(db *gorm.DB) *GormWorkerRepository {
	return &GormWorkerRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormWorkerRepository) WithTx(tx *gorm.DB) *GormWorkerRepository {
	if tx == nil {
		return r
	}
	return &GormWorkerRepository{db: tx}
}

func withWorkerDetail(db *gorm.DB) *gorm.DB {
	return db.Preload("Campaign").Preload("Campaign.Plant").Preload("Plant").Preload("Pickup")
}

func (r *GormWorkerRepository) first(query *gorm.DB) (*models.Worker, error) {
	var worker models.Worker
	if err := withWorkerDetail(query).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

// Create inserts a worker. The claim code must already be assigned.
func (r *GormWorkerRepository) Create(worker *models.Worker) error {
	if worker == nil {
		return errors.New("worker is nil")
	}
	return r.db.Omit("Campaign", "Plant", "Pickup").Create(worker).Error
}

// GetByID loads the worker with campaign, plant and pickup.
func (r *GormWorkerRepository) GetByID(id uint) (*models.Worker, error) {
	if id == 0 {
		return nil, nil
	}
	return r.first(r.db.Where("workers.id = ?", id))
}

// GetByCampaignAndRUT is the dedup lookup of roster ingestion.
func (r *GormWorkerRepository) GetByCampaignAndRUT(campaignID uint, rut string) (*models.Worker, error) {
	var worker models.Worker
	err := r.db.Where("campaign_id = ? AND rut = ?", campaignID, strings.TrimSpace(rut)).First(&worker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &worker, nil
}

// GetByClaimCode matches the code exactly after upper-casing.
func (r *GormWorkerRepository) GetByClaimCode(code string) (*models.Worker, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, nil
	}
	return r.first(r.db.Where("claim_code = ?", code))
}

// ListByRUTActiveOn returns the worker rows of rut in active campaigns covering day.
func (r *GormWorkerRepository) ListByRUTActiveOn(rut string, day time.Time) ([]models.Worker, error) {
	day = models.Day(day)
	workers := make([]models.Worker, 0)
	err := withWorkerDetail(r.db).
		Joins("JOIN campaigns ON campaigns.id = workers.campaign_id").
		Where("workers.rut = ? AND campaigns.active = ? AND campaigns.start_date <= ? AND campaigns.end_date >= ?", rut, true, day, day).
		Order("workers.id asc").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

// ListByRUTInActiveCampaigns returns the worker rows of rut in every active campaign.
func (r *GormWorkerRepository) ListByRUTInActiveCampaigns(rut string) ([]models.Worker, error) {
	workers := make([]models.Worker, 0)
	err := withWorkerDetail(r.db).
		Joins("JOIN campaigns ON campaigns.id = workers.campaign_id").
		Where("workers.rut = ? AND campaigns.active = ?", rut, true).
		Order("campaigns.start_date desc, workers.id asc").
		Find(&workers).Error
	if err != nil {
		return nil, err
	}
	return workers, nil
}

// List pages through workers of one campaign ordered by name.
func (r *GormWorkerRepository) List(filter WorkerListFilter) ([]models.Worker, int64, error) {
	query := r.db.Model(&models.Worker{})
	if filter.CampaignID != 0 {
		query = query.Where("workers.campaign_id = ?", filter.CampaignID)
	}
	if filter.PlantID != 0 {
		query = query.Where("workers.plant_id = ?", filter.PlantID)
	}
	delivered := r.db.Model(&models.Pickup{}).Select("worker_id")
	switch filter.Status {
	case WorkerStatusDelivered:
		query = query.Where("workers.id IN (?)", delivered)
	case WorkerStatusPending:
		query = query.Where("workers.id NOT IN (?)", delivered)
	}
	query = applySearch(query, filter.Search, "workers.name", "workers.rut", "workers.claim_code")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	workers := make([]models.Worker, 0)
	if err := query.Preload("Plant").Preload("Pickup").Order("workers.name asc, workers.id asc").Find(&workers).Error; err != nil {
		return nil, 0, err
	}
	return workers, total, nil
}

// ListClaimCodesLike returns every claim code containing "-"+fragment, across campaigns.
func (r *GormWorkerRepository) ListClaimCodesLike(fragment string) ([]string, error) {
	codes := make([]string, 0)
	err := r.db.Model(&models.Worker{}).
		Where("claim_code LIKE ?", "_-"+fragment+"%").
		Pluck("claim_code", &codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// UpdateClaimCode rewrites a code. Only renumbering calls it.
func (r *GormWorkerRepository) UpdateClaimCode(id uint, code string) error {
	return r.db.Model(&models.Worker{}).Where("id = ?", id).Updates(map[string]interface{}{
		"claim_code": code,
		"updated_at": time.Now(),
	}).Error
}
