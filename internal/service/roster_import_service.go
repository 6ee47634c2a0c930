package service

import (
	"errors"
	"fmt"
	"io"

	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/roster"

	"gorm.io/gorm"
)

// RosterImportInput one ingestion run. Rows is the decoded table, header first.
type RosterImportInput struct {
	Campaign    *models.Campaign
	FileName    string
	StoredPath  string
	Rows        [][]string
	RequireRows bool
	ActorID     *uint
}

// RosterImportResult outcome of a run. Skipped counts rows rejected with an error.
type RosterImportResult struct {
	ImportID       uint     `json:"import_id"`
	Layout         string   `json:"layout"`
	Created        int      `json:"created"`
	AlreadyExisted int      `json:"already_existed"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
	Summary        string   `json:"summary"`
}

// RosterImportService turns roster tables into workers with claim codes.
type RosterImportService struct {
	plantRepo   repository.PlantRepository
	workerRepo  repository.WorkerRepository
	importRepo  repository.RosterImportRepository
	claimCodes  *ClaimCodeService
	parseOption roster.Options
}

// NewRosterImportService creates the service.
func NewRosterImportService(
	plantRepo repository.PlantRepository,
	workerRepo repository.WorkerRepository,
	importRepo repository.RosterImportRepository,
	claimCodes *ClaimCodeService,
	strictRUT bool,
) *RosterImportService {
	return &RosterImportService{
		plantRepo:   plantRepo,
		workerRepo:  workerRepo,
		importRepo:  importRepo,
		claimCodes:  claimCodes,
		parseOption: roster.Options{StrictRUT: strictRUT},
	}
}

// Decode reads a roster upload into rows according to its extension.
func (s *RosterImportService) Decode(fileName string, r io.Reader) ([][]string, error) {
	rows, err := roster.Decode(fileName, r)
	if err != nil {
		if errors.Is(err, roster.ErrEmptyFile) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFile, err)
		}
		return nil, err
	}
	return rows, nil
}

// Ingest creates the missing workers of in.Campaign inside tx. Any returned error must
// roll tx back: ErrMalformedFile, ErrNoRowsCreated, ErrDuplicateClaimCode or a store error.
func (s *RosterImportService) Ingest(tx *gorm.DB, in RosterImportInput) (*RosterImportResult, error) {
	campaign := in.Campaign
	if campaign == nil || campaign.ID == 0 {
		return nil, ErrCampaignNotFound
	}
	parsed, err := roster.Parse(in.Rows, s.parseOption)
	if err != nil {
		return nil, err
	}

	plants, err := s.plantRepo.WithTx(tx).List(false)
	if err != nil {
		return nil, err
	}
	directory, byID := plantDirectory(plants)
	defaultPlant, ok := byID[campaign.PlantID]
	if !ok {
		return nil, ErrPlantNotFound
	}

	result := &RosterImportResult{Layout: string(parsed.Layout)}
	messages := parsed.ErrorMessages()
	for _, rowErr := range parsed.Errors {
		logger.Warnw("roster_import_row_skipped", "campaign_id", campaign.ID, "row", rowErr.Row, "reason", rowErr.Reason)
	}

	workerRepo := s.workerRepo.WithTx(tx)
	for _, entry := range parsed.Entries {
		existing, err := workerRepo.GetByCampaignAndRUT(campaign.ID, entry.RUT)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			result.AlreadyExisted++
			continue
		}

		resolved := directory.Resolve(entry.PlantRef, toRosterPlant(defaultPlant))
		plant := byID[resolved.ID]
		worker := &models.Worker{
			CampaignID:   campaign.ID,
			RUT:          entry.RUT,
			Name:         entry.Name,
			ContractType: entry.ContractType,
			BoxTier:      entry.BoxTier,
			PlantID:      plant.ID,
		}
		if _, err := s.claimCodes.Assign(tx, worker, campaign, &plant); err != nil {
			return nil, err
		}
		if err := workerRepo.Create(worker); err != nil {
			if isUniqueViolation(err, "claim_code") {
				logger.Errorw("roster_import_duplicate_claim_code", "campaign_id", campaign.ID, "claim_code", worker.ClaimCode)
				return nil, fmt.Errorf("%w: %s", ErrDuplicateClaimCode, worker.ClaimCode)
			}
			return nil, err
		}
		result.Created++
	}

	result.Errors = messages
	result.Skipped = len(parsed.Errors)
	result.Summary = roster.SummarizeErrors(messages)
	if in.RequireRows && result.Created == 0 {
		if result.Summary != "" {
			return result, fmt.Errorf("%w:\n%s", ErrNoRowsCreated, result.Summary)
		}
		return result, ErrNoRowsCreated
	}

	record := &models.RosterImport{
		CampaignID:    campaign.ID,
		FileName:      in.FileName,
		StoredPath:    in.StoredPath,
		Layout:        result.Layout,
		CreatedCount:  result.Created,
		ExistingCount: result.AlreadyExisted,
		ErrorCount:    result.Skipped,
		Errors:        models.StringArray(messages),
		CreatedBy:     in.ActorID,
	}
	if err := s.importRepo.WithTx(tx).Create(record); err != nil {
		return nil, err
	}
	result.ImportID = record.ID

	logger.Infow("roster_import_completed",
		"campaign_id", campaign.ID,
		"layout", result.Layout,
		"created", result.Created,
		"already_existed", result.AlreadyExisted,
		"skipped", result.Skipped,
	)
	return result, nil
}

// History lists previous runs of a campaign.
func (s *RosterImportService) History(campaignID uint, page, pageSize int) ([]models.RosterImport, int64, error) {
	return s.importRepo.ListByCampaign(campaignID, page, pageSize)
}

func plantDirectory(plants []models.Plant) (*roster.PlantDirectory, map[uint]models.Plant) {
	refs := make([]roster.Plant, 0, len(plants))
	byID := make(map[uint]models.Plant, len(plants))
	for _, p := range plants {
		refs = append(refs, toRosterPlant(p))
		byID[p.ID] = p
	}
	return roster.NewPlantDirectory(refs), byID
}

func toRosterPlant(p models.Plant) roster.Plant {
	return roster.Plant{ID: p.ID, Code: p.Code, Name: p.Name}
}
