package service

import (
	"fmt"

	"github.com/tresmontes-cajas/internal/claimcode"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"

	"gorm.io/gorm"
)

// ClaimCodeService hands out claim codes from the (date prefix, plant short code) counters.
type ClaimCodeService struct {
	seqRepo    repository.CodeSequenceRepository
	workerRepo repository.WorkerRepository
}

// NewClaimCodeService creates the service.
func NewClaimCodeService(seqRepo repository.CodeSequenceRepository, workerRepo repository.WorkerRepository) *ClaimCodeService {
	return &ClaimCodeService{seqRepo: seqRepo, workerRepo: workerRepo}
}

// Assign sets worker.ClaimCode when it is empty and returns the code. An existing code
// is returned untouched. tx must be the transaction that will insert the worker.
func (s *ClaimCodeService) Assign(tx *gorm.DB, worker *models.Worker, campaign *models.Campaign, plant *models.Plant) (string, error) {
	if worker == nil || campaign == nil || plant == nil {
		return "", ErrInvalidInput
	}
	if worker.ClaimCode != "" {
		return worker.ClaimCode, nil
	}

	datePrefix := claimcode.DatePrefix(campaign.StartDate)
	short := claimcode.ShortCode(plant.Code)
	workerRepo := s.workerRepo.WithTx(tx)
	inUse := func() (int, error) {
		codes, err := workerRepo.ListClaimCodesLike(datePrefix + short)
		if err != nil {
			return 0, err
		}
		return claimcode.NewBucketMatcher(datePrefix, short).MaxSequence(codes), nil
	}

	seq, err := s.seqRepo.WithTx(tx).Next(datePrefix, short, inUse)
	if err != nil {
		return "", fmt.Errorf("next claim code sequence: %w", err)
	}
	worker.ClaimCode = claimcode.Build(worker.ContractType, campaign.StartDate, plant.Code, seq)
	return worker.ClaimCode, nil
}
