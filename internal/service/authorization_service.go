package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/rut"
)

// CreateAuthorizationInput a third party allowed to collect a box.
type CreateAuthorizationInput struct {
	WorkerID  uint
	Name      string
	RUT       string
	Date      time.Time
	SingleUse bool
}

// AuthorizationService third-party pickup authorizations.
type AuthorizationService struct {
	workerRepo repository.WorkerRepository
	authRepo   repository.AuthorizationRepository
}

// NewAuthorizationService creates the service.
func NewAuthorizationService(workerRepo repository.WorkerRepository, authRepo repository.AuthorizationRepository) *AuthorizationService {
	return &AuthorizationService{workerRepo: workerRepo, authRepo: authRepo}
}

// Create validates the third party's RUT and stores the authorization. Workers may only
// authorize for their own records, which the caller enforces via OwnedBy.
func (s *AuthorizationService) Create(input CreateAuthorizationInput) (*models.ThirdPartyAuthorization, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || strings.TrimSpace(input.RUT) == "" {
		return nil, ErrThirdPartyDataRequired
	}
	formatted, err := rut.Format(input.RUT)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRUT, err)
	}
	worker, err := s.workerRepo.GetByID(input.WorkerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}

	item := &models.ThirdPartyAuthorization{
		WorkerID:       worker.ID,
		Name:           name,
		RUT:            formatted,
		AuthorizedDate: models.Day(input.Date),
		SingleUse:      input.SingleUse,
		Active:         true,
	}
	if err := s.authRepo.Create(item); err != nil {
		return nil, err
	}
	logger.Infow("third_party_authorized", "worker_id", worker.ID, "authorization_id", item.ID, "single_use", item.SingleUse)
	return item, nil
}

// ListByWorker returns a worker's authorizations.
func (s *AuthorizationService) ListByWorker(workerID uint, activeOnly bool) ([]models.ThirdPartyAuthorization, error) {
	return s.authRepo.ListByWorker(workerID, activeOnly)
}

// ValidOn returns the active authorizations of a worker that apply on day.
func (s *AuthorizationService) ValidOn(workerID uint, day time.Time) ([]models.ThirdPartyAuthorization, error) {
	items, err := s.authRepo.ListByWorker(workerID, true)
	if err != nil {
		return nil, err
	}
	valid := make([]models.ThirdPartyAuthorization, 0, len(items))
	for i := range items {
		if items[i].ValidFor(day) {
			valid = append(valid, items[i])
		}
	}
	return valid, nil
}

// Revoke deactivates an authorization.
func (s *AuthorizationService) Revoke(id uint) error {
	item, err := s.authRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrAuthorizationNotFound
	}
	return s.authRepo.Deactivate(id)
}

// OwnedBy reports whether the worker row of workerID carries the given canonical RUT.
func (s *AuthorizationService) OwnedBy(workerID uint, ownerRUT string) (bool, error) {
	worker, err := s.workerRepo.GetByID(workerID)
	if err != nil {
		return false, err
	}
	return worker != nil && ownerRUT != "" && worker.RUT == ownerRUT, nil
}
