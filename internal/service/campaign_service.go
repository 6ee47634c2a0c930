package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/cache"
	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CampaignStats delivery progress of a campaign.
type CampaignStats struct {
	CampaignID   uint    `json:"campaign_id"`
	Total        int64   `json:"total"`
	Delivered    int64   `json:"delivered"`
	Pending      int64   `json:"pending"`
	DeliveryRate float64 `json:"delivery_rate"` // percent, one decimal
}

// CampaignDetail is a campaign with its stats.
type CampaignDetail struct {
	Campaign models.Campaign `json:"campaign"`
	Stats    CampaignStats   `json:"stats"`
}

// CreateCampaignInput parameters of Create. Blocked dates outside the range are dropped.
type CreateCampaignInput struct {
	Name         string
	StartDate    time.Time
	EndDate      time.Time
	PlantID      uint
	BlockedDates []time.Time
	BlockReason  string
}

// CreateCampaignResult campaign plus the outcome of its first roster run.
type CreateCampaignResult struct {
	Campaign *models.Campaign   `json:"campaign"`
	Import   RosterImportResult `json:"import"`
	Blocked  int                `json:"blocked_dates"`
}

// CampaignService campaign administration.
type CampaignService struct {
	db           *gorm.DB
	campaignRepo repository.CampaignRepository
	blockedRepo  repository.BlockedDateRepository
	plantRepo    repository.PlantRepository
	reportRepo   repository.ReportRepository
	importer     *RosterImportService
	uploads      *UploadService
	audit        *AuditService
}

// NewCampaignService creates the service.
func NewCampaignService(
	db *gorm.DB,
	campaignRepo repository.CampaignRepository,
	blockedRepo repository.BlockedDateRepository,
	plantRepo repository.PlantRepository,
	reportRepo repository.ReportRepository,
	importer *RosterImportService,
	uploads *UploadService,
	audit *AuditService,
) *CampaignService {
	return &CampaignService{
		db:           db,
		campaignRepo: campaignRepo,
		blockedRepo:  blockedRepo,
		plantRepo:    plantRepo,
		reportRepo:   reportRepo,
		importer:     importer,
		uploads:      uploads,
		audit:        audit,
	}
}

// Create validates the input, then in one transaction creates the campaign, its blocked
// dates and its workers from file. Any fatal ingestion error rolls everything back.
func (s *CampaignService) Create(ctx context.Context, actor Actor, input CreateCampaignInput, file *StoredFile) (*CreateCampaignResult, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCampaignNameRequired
	}
	start := models.Day(input.StartDate)
	end := models.Day(input.EndDate)
	if end.Before(start) {
		return nil, ErrCampaignDateRange
	}
	if file == nil || len(file.Data) == 0 {
		return nil, ErrRosterFileRequired
	}
	plant, err := s.plantRepo.GetByID(input.PlantID)
	if err != nil {
		return nil, err
	}
	if plant == nil {
		return nil, ErrPlantNotFound
	}
	rows, err := s.importer.Decode(file.OriginalName, file.Reader())
	if err != nil {
		s.discard(file)
		return nil, err
	}

	campaign := &models.Campaign{
		Name:       name,
		StartDate:  start,
		EndDate:    end,
		PlantID:    plant.ID,
		Active:     true,
		RosterFile: file.Path,
		CreatedBy:  actor.userIDPtr(),
	}
	result := &CreateCampaignResult{Campaign: campaign}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.campaignRepo.WithTx(tx).Create(campaign); err != nil {
			return err
		}
		blocked, err := s.insertBlockedDates(tx, campaign, input.BlockedDates, input.BlockReason, actor)
		if err != nil {
			return err
		}
		result.Blocked = blocked

		imported, err := s.importer.Ingest(tx, RosterImportInput{
			Campaign:    campaign,
			FileName:    file.OriginalName,
			StoredPath:  file.Path,
			Rows:        rows,
			RequireRows: true,
			ActorID:     actor.userIDPtr(),
		})
		if err != nil {
			return err
		}
		result.Import = *imported
		return s.audit.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			Action:     constants.AuditActionCampaignCreate,
			CampaignID: &campaign.ID,
			Detail: models.JSON{
				"name":    campaign.Name,
				"created": imported.Created,
				"skipped": imported.Skipped,
			},
		})
	})
	if err != nil {
		s.discard(file)
		logger.Warnw("campaign_create_failed", "name", name, "plant_id", plant.ID, "error", err)
		return nil, err
	}
	campaign.Plant = plant
	logger.Infow("campaign_created", "campaign_id", campaign.ID, "workers", result.Import.Created, "blocked_dates", result.Blocked)
	return result, nil
}

func (s *CampaignService) insertBlockedDates(tx *gorm.DB, campaign *models.Campaign, dates []time.Time, reason string, actor Actor) (int, error) {
	repo := s.blockedRepo.WithTx(tx)
	seen := make(map[time.Time]struct{}, len(dates))
	count := 0
	for _, raw := range dates {
		day := models.Day(raw)
		if !campaign.Covers(day) {
			continue
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		item := &models.BlockedDate{
			CampaignID: campaign.ID,
			Date:       day,
			Reason:     normalizeBlockReason(reason),
			BlockedBy:  actor.userIDPtr(),
		}
		if err := repo.Create(item); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// ImportRoster runs another ingestion on an existing campaign. Rows already present are
// counted, not recreated; zero new workers is not an error here.
func (s *CampaignService) ImportRoster(ctx context.Context, actor Actor, campaignID uint, file *StoredFile) (*RosterImportResult, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	if file == nil || len(file.Data) == 0 {
		return nil, ErrRosterFileRequired
	}
	rows, err := s.importer.Decode(file.OriginalName, file.Reader())
	if err != nil {
		s.discard(file)
		return nil, err
	}

	var result *RosterImportResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		imported, err := s.importer.Ingest(tx, RosterImportInput{
			Campaign:   campaign,
			FileName:   file.OriginalName,
			StoredPath: file.Path,
			Rows:       rows,
			ActorID:    actor.userIDPtr(),
		})
		if err != nil {
			return err
		}
		result = imported
		return s.audit.RecordTx(tx, AuditRecordInput{
			Actor:      actor,
			Action:     constants.AuditActionRosterImport,
			CampaignID: &campaign.ID,
			Detail:     models.JSON{"created": imported.Created, "already_existed": imported.AlreadyExisted, "skipped": imported.Skipped},
		})
	})
	if err != nil {
		s.discard(file)
		return nil, err
	}
	_ = cache.InvalidateCampaignStats(ctx, campaign.ID)
	return result, nil
}

// List pages through campaigns with their stats.
func (s *CampaignService) List(filter repository.CampaignListFilter) ([]CampaignDetail, int64, error) {
	filter.WithPlant = true
	campaigns, total, err := s.campaignRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}
	stats, err := s.StatsFor(campaigns)
	if err != nil {
		return nil, 0, err
	}
	items := make([]CampaignDetail, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, CampaignDetail{Campaign: campaign, Stats: stats[campaign.ID]})
	}
	return items, total, nil
}

// Get returns a campaign with blocked dates and stats.
func (s *CampaignService) Get(ctx context.Context, id uint) (*CampaignDetail, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	stats, err := s.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CampaignDetail{Campaign: *campaign, Stats: *stats}, nil
}

// ToggleActive flips the active flag and returns the new value.
func (s *CampaignService) ToggleActive(actor Actor, id uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	campaign.Active = !campaign.Active
	if err := s.campaignRepo.Update(campaign); err != nil {
		return nil, err
	}
	s.audit.recordQuietly(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionCampaignToggle,
		CampaignID: &campaign.ID,
		Detail:     models.JSON{"active": campaign.Active},
	})
	return campaign, nil
}

// Delete removes a campaign and everything attached to it.
func (s *CampaignService) Delete(ctx context.Context, actor Actor, id uint) error {
	deleted, err := s.BulkDelete(ctx, actor, []uint{id})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// BulkDelete removes several campaigns in one transaction and returns how many existed.
func (s *CampaignService) BulkDelete(ctx context.Context, actor Actor, ids []uint) (int, error) {
	deleted := make([]models.Campaign, 0, len(ids))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.campaignRepo.WithTx(tx)
		seen := make(map[uint]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup || id == 0 {
				continue
			}
			seen[id] = struct{}{}
			campaign, err := repo.GetByID(id)
			if err != nil {
				return err
			}
			if campaign == nil {
				continue
			}
			if err := repo.DeleteCascade(id); err != nil {
				return fmt.Errorf("delete campaign %d: %w", id, err)
			}
			if err := s.audit.RecordTx(tx, AuditRecordInput{
				Actor:  actor,
				Action: constants.AuditActionCampaignDelete,
				Detail: models.JSON{"campaign_id": id, "name": campaign.Name},
			}); err != nil {
				return err
			}
			deleted = append(deleted, *campaign)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	for _, campaign := range deleted {
		_ = cache.InvalidateCampaignStats(ctx, campaign.ID)
		if s.uploads != nil {
			if err := s.uploads.Remove(campaign.RosterFile); err != nil {
				logger.Warnw("campaign_roster_file_remove_failed", "campaign_id", campaign.ID, "error", err)
			}
		}
	}
	return len(deleted), nil
}

// Stats returns delivery progress, cached briefly in redis.
func (s *CampaignService) Stats(ctx context.Context, id uint) (*CampaignStats, error) {
	var cached CampaignStats
	if hit, err := cache.GetCampaignStats(ctx, id, &cached); err == nil && hit {
		return &cached, nil
	}
	counts, err := s.reportRepo.CampaignCounts([]uint{id})
	if err != nil {
		return nil, err
	}
	stats := buildCampaignStats(counts[id])
	stats.CampaignID = id
	if err := cache.SetCampaignStats(ctx, id, stats); err != nil {
		logger.Debugw("campaign_stats_cache_set_failed", "campaign_id", id, "error", err)
	}
	return &stats, nil
}

// StatsFor computes stats for many campaigns at once, bypassing the cache.
func (s *CampaignService) StatsFor(campaigns []models.Campaign) (map[uint]CampaignStats, error) {
	ids := make([]uint, 0, len(campaigns))
	for _, campaign := range campaigns {
		ids = append(ids, campaign.ID)
	}
	counts, err := s.reportRepo.CampaignCounts(ids)
	if err != nil {
		return nil, err
	}
	result := make(map[uint]CampaignStats, len(ids))
	for _, id := range ids {
		stats := buildCampaignStats(counts[id])
		stats.CampaignID = id
		result[id] = stats
	}
	return result, nil
}

func buildCampaignStats(row repository.CampaignCountRow) CampaignStats {
	return CampaignStats{
		Total:        row.Total,
		Delivered:    row.Delivered,
		Pending:      row.Total - row.Delivered,
		DeliveryRate: DeliveryRate(row.Delivered, row.Total),
	}
}

// DeliveryRate is delivered/total as a percentage rounded to one decimal; 0 when total is 0.
func DeliveryRate(delivered, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(delivered).
		Div(decimal.NewFromInt(total)).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return rate.InexactFloat64()
}

func (s *CampaignService) discard(file *StoredFile) {
	if s.uploads == nil || file == nil {
		return
	}
	if err := s.uploads.Remove(file.Path); err != nil {
		logger.Warnw("roster_file_remove_failed", "path", file.Path, "error", err)
	}
}
