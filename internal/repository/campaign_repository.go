package repository

import (
	"errors"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// CampaignRepository campaign data access
type CampaignRepository interface {
	Create(campaign *models.Campaign) error
	Update(campaign *models.Campaign) error
	GetByID(id uint) (*models.Campaign, error)
	List(filter CampaignListFilter) ([]models.Campaign, int64, error)
	ListActiveOn(day time.Time) ([]models.Campaign, error)
	ListOverlapping(from, to time.Time, plantID uint) ([]models.Campaign, error)
	DeleteCascade(id uint) error
	WithTx(tx *gorm.DB) *GormCampaignRepository
}

// GormCampaignRepository gorm implementation
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates the campaign repository.
func NewCampaignRepository(db *gorm.DB) *GormCampaignRepository {
	return &GormCampaignRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormCampaignRepository) WithTx(tx *gorm.DB) *GormCampaignRepository {
	if tx == nil {
		return r
	}
	return &GormCampaignRepository{db: tx}
}

// Create inserts the campaign without its associations.
func (r *GormCampaignRepository) Create(campaign *models.Campaign) error {
	if campaign == nil {
		return errors.New("campaign is nil")
	}
	return r.db.Omit("Plant", "BlockedDates").Create(campaign).Error
}

// Update saves the campaign columns.
func (r *GormCampaignRepository) Update(campaign *models.Campaign) error {
	if campaign == nil {
		return errors.New("campaign is nil")
	}
	return r.db.Omit("Plant", "BlockedDates").Save(campaign).Error
}

// GetByID loads the campaign with plant and blocked dates.
func (r *GormCampaignRepository) GetByID(id uint) (*models.Campaign, error) {
	if id == 0 {
		return nil, nil
	}
	var campaign models.Campaign
	err := r.db.Preload("Plant").
		Preload("BlockedDates", func(db *gorm.DB) *gorm.DB { return db.Order("date asc") }).
		First(&campaign, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// List pages through campaigns, newest first.
func (r *GormCampaignRepository) List(filter CampaignListFilter) ([]models.Campaign, int64, error) {
	query := r.db.Model(&models.Campaign{})
	if filter.PlantID != 0 {
		query = query.Where("plant_id = ?", filter.PlantID)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.OverlapsOn != nil {
		day := models.Day(*filter.OverlapsOn)
		query = query.Where("start_date <= ? AND end_date >= ?", day, day)
	}
	query = applySearch(query, filter.Search, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if filter.WithPlant {
		query = query.Preload("Plant")
	}

	campaigns := make([]models.Campaign, 0)
	if err := query.Order("start_date desc, id desc").Find(&campaigns).Error; err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// ListActiveOn returns active campaigns whose range covers day.
func (r *GormCampaignRepository) ListActiveOn(day time.Time) ([]models.Campaign, error) {
	day = models.Day(day)
	campaigns := make([]models.Campaign, 0)
	err := r.db.Preload("Plant").
		Where("active = ? AND start_date <= ? AND end_date >= ?", true, day, day).
		Order("id asc").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListOverlapping returns campaigns intersecting [from, to]. plantID 0 means every plant.
func (r *GormCampaignRepository) ListOverlapping(from, to time.Time, plantID uint) ([]models.Campaign, error) {
	query := r.db.Preload("Plant").
		Where("start_date <= ? AND end_date >= ?", models.Day(to), models.Day(from))
	if plantID != 0 {
		query = query.Where("plant_id = ?", plantID)
	}
	campaigns := make([]models.Campaign, 0)
	if err := query.Order("start_date asc, id asc").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// DeleteCascade removes the campaign and everything hanging off it.
// Callers run it inside a transaction.
func (r *GormCampaignRepository) DeleteCascade(id uint) error {
	if id == 0 {
		return errors.New("invalid campaign id")
	}
	workerIDs := r.db.Model(&models.Worker{}).Select("id").Where("campaign_id = ?", id)
	steps := []struct {
		model interface{}
		query string
		arg   interface{}
	}{
		{&models.Pickup{}, "worker_id IN (?)", workerIDs},
		{&models.ThirdPartyAuthorization{}, "worker_id IN (?)", workerIDs},
		{&models.PickupSchedule{}, "worker_id IN (?)", workerIDs},
		{&models.Worker{}, "campaign_id = ?", id},
		{&models.BlockedDate{}, "campaign_id = ?", id},
		{&models.RosterImport{}, "campaign_id = ?", id},
	}
	for _, step := range steps {
		if err := r.db.Where(step.query, step.arg).Delete(step.model).Error; err != nil {
			return err
		}
	}
	return r.db.Delete(&models.Campaign{}, id).Error
}
