package repository

import (
	"fmt"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// ReportRepository aggregation queries for stats and exports. No business rules.
type ReportRepository interface {
	CampaignCounts(campaignIDs []uint) (map[uint]CampaignCountRow, error)
	DailyPickups(from, to time.Time, plantID uint) ([]DailyPickupRow, error)
	DeliveredRows(campaignID uint) ([]DeliveredExportRow, error)
	PendingRows(campaignID uint) ([]PendingExportRow, error)
}

// CampaignCountRow raw totals of one campaign.
type CampaignCountRow struct {
	CampaignID uint
	Total      int64
	Delivered  int64
}

// DailyPickupRow pickups per calendar day.
type DailyPickupRow struct {
	Day   string
	Total int64
}

// DeliveredExportRow one delivered worker.
type DeliveredExportRow struct {
	WorkerName     string
	RUT            string
	ContractType   string
	BoxTier        string
	PlantName      string
	ClaimCode      string
	PickedUpAt     time.Time
	ConfirmedBy    string
	ByThirdParty   bool
	ThirdPartyName string
	ThirdPartyRUT  string
	Notes          string
}

// PendingExportRow one worker without a pickup.
type PendingExportRow struct {
	WorkerName   string
	RUT          string
	ContractType string
	BoxTier      string
	PlantName    string
	ClaimCode    string
}

// GormReportRepository gorm implementation
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates the report repository.
func NewReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// CampaignCounts returns total and delivered workers per campaign. Campaigns
// without workers are present with zero counts.
func (r *GormReportRepository) CampaignCounts(campaignIDs []uint) (map[uint]CampaignCountRow, error) {
	result := make(map[uint]CampaignCountRow, len(campaignIDs))
	if len(campaignIDs) == 0 {
		return result, nil
	}
	for _, id := range campaignIDs {
		result[id] = CampaignCountRow{CampaignID: id}
	}

	type countRow struct {
		CampaignID uint
		Total      int64
	}
	var totals []countRow
	if err := r.db.Model(&models.Worker{}).
		Select("campaign_id, COUNT(*) as total").
		Where("campaign_id IN ?", campaignIDs).
		Group("campaign_id").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	for _, row := range totals {
		item := result[row.CampaignID]
		item.Total = row.Total
		result[row.CampaignID] = item
	}

	var delivered []countRow
	if err := r.db.Model(&models.Pickup{}).
		Select("workers.campaign_id as campaign_id, COUNT(*) as total").
		Joins("JOIN workers ON workers.id = pickups.worker_id").
		Where("workers.campaign_id IN ?", campaignIDs).
		Group("workers.campaign_id").
		Scan(&delivered).Error; err != nil {
		return nil, err
	}
	for _, row := range delivered {
		item := result[row.CampaignID]
		item.Delivered = row.Total
		result[row.CampaignID] = item
	}
	return result, nil
}

// DailyPickups counts pickups per day within [from, to+1day). plantID 0 means every plant.
func (r *GormReportRepository) DailyPickups(from, to time.Time, plantID uint) ([]DailyPickupRow, error) {
	start := models.Day(from)
	end := models.Day(to).AddDate(0, 0, 1)
	expr := dayExpr("picked_up_at")
	query := r.db.Model(&models.Pickup{}).
		Select(fmt.Sprintf("%s as day, COUNT(*) as total", expr)).
		Where("picked_up_at >= ? AND picked_up_at < ?", start, end)
	if plantID != 0 {
		query = query.Where("plant_id = ?", plantID)
	}
	rows := make([]DailyPickupRow, 0)
	if err := query.Group(expr).Order("day asc").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeliveredRows lists the delivered workers of a campaign by pickup time.
func (r *GormReportRepository) DeliveredRows(campaignID uint) ([]DeliveredExportRow, error) {
	rows := make([]DeliveredExportRow, 0)
	err := r.db.Table("pickups").
		Select(`workers.name as worker_name, workers.rut as rut, workers.contract_type as contract_type,
			workers.box_tier as box_tier, COALESCE(plants.name, '') as plant_name, pickups.claim_code as claim_code,
			pickups.picked_up_at as picked_up_at, COALESCE(users.username, '') as confirmed_by,
			pickups.by_third_party as by_third_party, pickups.third_party_name as third_party_name,
			pickups.third_party_rut as third_party_rut, pickups.notes as notes`).
		Joins("JOIN workers ON workers.id = pickups.worker_id").
		Joins("LEFT JOIN plants ON plants.id = workers.plant_id").
		Joins("LEFT JOIN users ON users.id = pickups.confirmed_by").
		Where("workers.campaign_id = ?", campaignID).
		Order("pickups.picked_up_at asc, pickups.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PendingRows lists the workers of a campaign without a pickup, by name.
func (r *GormReportRepository) PendingRows(campaignID uint) ([]PendingExportRow, error) {
	rows := make([]PendingExportRow, 0)
	err := r.db.Table("workers").
		Select(`workers.name as worker_name, workers.rut as rut, workers.contract_type as contract_type,
			workers.box_tier as box_tier, COALESCE(plants.name, '') as plant_name, workers.claim_code as claim_code`).
		Joins("LEFT JOIN plants ON plants.id = workers.plant_id").
		Joins("LEFT JOIN pickups ON pickups.worker_id = workers.id").
		Where("workers.campaign_id = ? AND pickups.id IS NULL", campaignID).
		Order("workers.name asc, workers.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
