package service

import (
	"context"
	"fmt"
	"time"

	"github.com/tresmontes-cajas/internal/claimcode"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"

	"gorm.io/gorm"
)

// RenumberChange one rewritten code.
type RenumberChange struct {
	WorkerID uint   `json:"worker_id"`
	PickupID uint   `json:"pickup_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// RenumberSummary outcome of a renumbering pass.
type RenumberSummary struct {
	DryRun    bool             `json:"dry_run"`
	Pickups   int              `json:"pickups"`
	Buckets   int              `json:"buckets"`
	Rewritten int              `json:"rewritten"`
	Changes   []RenumberChange `json:"changes"`
}

// RenumberService rewrites claim codes of delivered boxes so each (pickup day, plant)
// bucket is numbered 1..N in pickup order.
type RenumberService struct {
	db         *gorm.DB
	workerRepo repository.WorkerRepository
	pickupRepo repository.PickupRepository
	loc        *time.Location
}

// NewRenumberService creates the service. loc decides which calendar day a pickup belongs to.
func NewRenumberService(db *gorm.DB, workerRepo repository.WorkerRepository, pickupRepo repository.PickupRepository, loc *time.Location) *RenumberService {
	if loc == nil {
		loc = time.UTC
	}
	return &RenumberService{db: db, workerRepo: workerRepo, pickupRepo: pickupRepo, loc: loc}
}

// Plan computes the new codes without writing anything.
func (s *RenumberService) Plan(pickups []models.Pickup) (changes []RenumberChange, buckets int) {
	counters := make(map[string]int)
	for _, pickup := range pickups {
		worker := pickup.Worker
		if worker == nil {
			continue
		}
		plantCode := ""
		if worker.Plant != nil {
			plantCode = worker.Plant.Code
		}
		day := pickup.PickedUpAt.In(s.loc)
		key := claimcode.DatePrefix(day) + claimcode.ShortCode(plantCode)
		counters[key]++
		code := claimcode.Build(worker.ContractType, day, plantCode, counters[key])
		if code == pickup.ClaimCode && code == worker.ClaimCode {
			continue
		}
		changes = append(changes, RenumberChange{
			WorkerID: worker.ID,
			PickupID: pickup.ID,
			From:     pickup.ClaimCode,
			To:       code,
		})
	}
	return changes, len(counters)
}

// Renumber runs the pass in one transaction. With dryRun the plan is returned and nothing
// is written. A target code held by a worker outside the pass yields ErrDuplicateClaimCode.
func (s *RenumberService) Renumber(ctx context.Context, dryRun bool) (*RenumberSummary, error) {
	summary := &RenumberSummary{DryRun: dryRun}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pickupRepo := s.pickupRepo.WithTx(tx)
		workerRepo := s.workerRepo.WithTx(tx)

		pickups, err := pickupRepo.ListChronological()
		if err != nil {
			return err
		}
		changes, buckets := s.Plan(pickups)
		summary.Pickups = len(pickups)
		summary.Buckets = buckets
		summary.Changes = changes
		summary.Rewritten = len(changes)
		if dryRun || len(changes) == 0 {
			return nil
		}

		// Park every affected code first so swaps inside the pass never collide.
		for _, change := range changes {
			temp := fmt.Sprintf("TMP-%d", change.PickupID)
			if err := workerRepo.UpdateClaimCode(change.WorkerID, temp); err != nil {
				return err
			}
			if err := pickupRepo.UpdateClaimCode(change.PickupID, temp); err != nil {
				return err
			}
		}
		for _, change := range changes {
			if err := workerRepo.UpdateClaimCode(change.WorkerID, change.To); err != nil {
				if isUniqueViolation(err, "claim_code") {
					return fmt.Errorf("%w: %s", ErrDuplicateClaimCode, change.To)
				}
				return err
			}
			if err := pickupRepo.UpdateClaimCode(change.PickupID, change.To); err != nil {
				if isUniqueViolation(err, "claim_code") {
					return fmt.Errorf("%w: %s", ErrDuplicateClaimCode, change.To)
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorw("claim_code_renumber_failed", "dry_run", dryRun, "error", err)
		return nil, err
	}
	logger.Infow("claim_code_renumber_completed",
		"dry_run", dryRun,
		"pickups", summary.Pickups,
		"buckets", summary.Buckets,
		"rewritten", summary.Rewritten,
	)
	return summary, nil
}
