package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/cache"
	"github.com/tresmontes-cajas/internal/claimcode"
	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/rut"

	"gorm.io/gorm"
)

// LookupResult what a guard sees after typing a RUT.
type LookupResult struct {
	Worker         *models.Worker                   `json:"worker"`
	Pickup         *models.Pickup                   `json:"pickup,omitempty"`
	PickedUp       bool                             `json:"picked_up"`
	BlockedToday   bool                             `json:"blocked_today"`
	Authorizations []models.ThirdPartyAuthorization `json:"authorizations"`
}

// ConfirmInput delivery details. PlantID 0 skips the plant check.
type ConfirmInput struct {
	PlantID        uint
	ByThirdParty   bool
	ThirdPartyName string
	ThirdPartyRUT  string
	Notes          string
}

// PickupService confirms box deliveries.
type PickupService struct {
	db           *gorm.DB
	workerRepo   repository.WorkerRepository
	pickupRepo   repository.PickupRepository
	blockedRepo  repository.BlockedDateRepository
	authRepo     repository.AuthorizationRepository
	scheduleRepo repository.ScheduleRepository
	loc          *time.Location
}

// NewPickupService creates the service. loc is the calendar used for "today".
func NewPickupService(
	db *gorm.DB,
	workerRepo repository.WorkerRepository,
	pickupRepo repository.PickupRepository,
	blockedRepo repository.BlockedDateRepository,
	authRepo repository.AuthorizationRepository,
	scheduleRepo repository.ScheduleRepository,
	loc *time.Location,
) *PickupService {
	if loc == nil {
		loc = time.UTC
	}
	return &PickupService{
		db:           db,
		workerRepo:   workerRepo,
		pickupRepo:   pickupRepo,
		blockedRepo:  blockedRepo,
		authRepo:     authRepo,
		scheduleRepo: scheduleRepo,
		loc:          loc,
	}
}

// Today returns the calendar day of now in the configured zone.
func (s *PickupService) Today(now time.Time) time.Time {
	return models.DayIn(now, s.loc)
}

func workerAtPlant(worker *models.Worker, plantID uint) bool {
	if plantID == 0 {
		return true
	}
	if worker.PlantID == plantID {
		return true
	}
	return worker.Campaign != nil && worker.Campaign.PlantID == plantID
}

// Lookup finds the worker with rawRUT in a campaign active today at plantID.
func (s *PickupService) Lookup(actor Actor, plantID uint, rawRUT string, now time.Time) (*LookupResult, error) {
	canonical, err := rut.Format(rawRUT)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRUT, err)
	}
	today := s.Today(now)
	candidates, err := s.workerRepo.ListByRUTActiveOn(canonical, today)
	if err != nil {
		return nil, err
	}

	var worker *models.Worker
	for i := range candidates {
		if !workerAtPlant(&candidates[i], plantID) {
			continue
		}
		if worker == nil || (worker.PickedUp() && !candidates[i].PickedUp()) {
			worker = &candidates[i]
		}
	}
	if worker == nil {
		logger.Infow("pickup_lookup_miss", "rut", canonical, "plant_id", plantID, "actor_id", actor.UserID)
		return nil, ErrWorkerNotFound
	}

	blocked, err := s.blockedRepo.Exists(worker.CampaignID, today)
	if err != nil {
		return nil, err
	}
	auths, err := s.authRepo.ListByWorker(worker.ID, true)
	if err != nil {
		return nil, err
	}
	valid := make([]models.ThirdPartyAuthorization, 0, len(auths))
	for i := range auths {
		if auths[i].ValidFor(today) {
			valid = append(valid, auths[i])
		}
	}
	return &LookupResult{
		Worker:         worker,
		Pickup:         worker.Pickup,
		PickedUp:       worker.PickedUp(),
		BlockedToday:   blocked,
		Authorizations: valid,
	}, nil
}

// Confirm records the delivery of a worker's box. The existence check and the insert share
// a transaction; a concurrent duplicate hits the unique worker index.
func (s *PickupService) Confirm(ctx context.Context, actor Actor, workerID uint, input ConfirmInput, now time.Time) (*models.Pickup, error) {
	notes := strings.TrimSpace(input.Notes)
	var thirdPartyRUT string
	thirdPartyName := strings.TrimSpace(input.ThirdPartyName)
	if input.ByThirdParty {
		if thirdPartyName == "" || strings.TrimSpace(input.ThirdPartyRUT) == "" {
			return nil, ErrThirdPartyDataRequired
		}
		formatted, err := rut.Format(input.ThirdPartyRUT)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRUT, err)
		}
		thirdPartyRUT = formatted
		notes = appendNoteLine(notes, fmt.Sprintf(constants.PickupNoteThirdPartyTrace, thirdPartyName, thirdPartyRUT))
	}

	today := s.Today(now)
	var pickup *models.Pickup
	var campaignID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		worker, err := s.workerRepo.WithTx(tx).GetByID(workerID)
		if err != nil {
			return err
		}
		if worker == nil {
			return ErrWorkerNotFound
		}
		if !workerAtPlant(worker, input.PlantID) {
			return ErrPlantMismatch
		}
		if worker.Campaign == nil || !worker.Campaign.Active || !worker.Campaign.Covers(today) {
			return ErrCampaignNotActive
		}
		if worker.PickedUp() {
			return ErrAlreadyPickedUp
		}
		blocked, err := s.blockedRepo.WithTx(tx).Exists(worker.CampaignID, today)
		if err != nil {
			return err
		}
		if blocked {
			return ErrPickupDayBlocked
		}

		plantID := input.PlantID
		if plantID == 0 {
			plantID = worker.PlantID
		}
		pickup = &models.Pickup{
			WorkerID:       worker.ID,
			PlantID:        plantID,
			PickedUpAt:     now,
			ConfirmedBy:    actor.userIDPtr(),
			Notes:          notes,
			ByThirdParty:   input.ByThirdParty,
			ThirdPartyName: thirdPartyName,
			ThirdPartyRUT:  thirdPartyRUT,
			ClaimCode:      worker.ClaimCode,
		}
		if err := s.pickupRepo.WithTx(tx).Create(pickup); err != nil {
			if isUniqueViolation(err, "") {
				return ErrAlreadyPickedUp
			}
			return err
		}

		schedule, err := s.scheduleRepo.WithTx(tx).GetByWorkerAndDate(worker.ID, today)
		if err != nil {
			return err
		}
		if schedule != nil {
			if err := s.scheduleRepo.WithTx(tx).MarkConfirmed(schedule.ID, now); err != nil {
				return err
			}
		}
		campaignID = worker.CampaignID
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = cache.InvalidateCampaignStats(ctx, campaignID)
	logger.Infow("pickup_confirmed",
		"pickup_id", pickup.ID,
		"worker_id", workerID,
		"campaign_id", campaignID,
		"claim_code", pickup.ClaimCode,
		"plant_id", pickup.PlantID,
		"actor_id", actor.UserID,
		"by_third_party", pickup.ByThirdParty,
	)
	return pickup, nil
}

// ConfirmByQR confirms the worker owning claimCode at plantID.
func (s *PickupService) ConfirmByQR(ctx context.Context, actor Actor, plantID uint, claimCode string, now time.Time) (*models.Pickup, error) {
	code := strings.ToUpper(strings.TrimSpace(claimCode))
	if !claimcode.IsValid(code) {
		return nil, ErrInvalidClaimCode
	}
	worker, err := s.workerRepo.GetByClaimCode(code)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}
	if !workerAtPlant(worker, plantID) {
		return nil, ErrPlantMismatch
	}
	return s.Confirm(ctx, actor, worker.ID, ConfirmInput{PlantID: plantID, Notes: constants.PickupNoteQRScan}, now)
}

// AppendNote adds a line to a pickup's notes. It is the only change allowed after creation.
func (s *PickupService) AppendNote(ctx context.Context, pickupID uint, note string) (*models.Pickup, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrNoteRequired
	}
	var pickup *models.Pickup
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.pickupRepo.WithTx(tx)
		current, err := repo.GetByID(pickupID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrPickupNotFound
		}
		current.Notes = appendNoteLine(current.Notes, note)
		if err := repo.UpdateNotes(current.ID, current.Notes); err != nil {
			return err
		}
		pickup = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pickup, nil
}

// Recent lists the latest confirmations at a plant; 0 means every plant.
func (s *PickupService) Recent(plantID uint, limit int) ([]models.Pickup, error) {
	return s.pickupRepo.ListRecentByPlant(plantID, limit)
}

func appendNoteLine(notes, line string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
