package service

import (
	"time"

	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
)

// PortalItem one campaign entry of a worker's self-service view. QRPayload is the
// claim code itself.
type PortalItem struct {
	Worker         models.Worker                    `json:"worker"`
	ClaimCode      string                           `json:"claim_code"`
	QRPayload      string                           `json:"qr_payload"`
	PickedUp       bool                             `json:"picked_up"`
	BlockedToday   bool                             `json:"blocked_today"`
	Authorizations []models.ThirdPartyAuthorization `json:"authorizations"`
	Schedules      []models.PickupSchedule          `json:"schedules"`
}

// WorkerPortalService the trabajador view.
type WorkerPortalService struct {
	workerRepo   repository.WorkerRepository
	blockedRepo  repository.BlockedDateRepository
	authRepo     repository.AuthorizationRepository
	scheduleRepo repository.ScheduleRepository
	loc          *time.Location
}

// NewWorkerPortalService creates the service.
func NewWorkerPortalService(
	workerRepo repository.WorkerRepository,
	blockedRepo repository.BlockedDateRepository,
	authRepo repository.AuthorizationRepository,
	scheduleRepo repository.ScheduleRepository,
	loc *time.Location,
) *WorkerPortalService {
	if loc == nil {
		loc = time.UTC
	}
	return &WorkerPortalService{
		workerRepo:   workerRepo,
		blockedRepo:  blockedRepo,
		authRepo:     authRepo,
		scheduleRepo: scheduleRepo,
		loc:          loc,
	}
}

// Status returns the actor's worker records across active campaigns.
func (s *WorkerPortalService) Status(actor Actor, now time.Time) ([]PortalItem, error) {
	if actor.RUT == "" {
		return []PortalItem{}, nil
	}
	today := models.DayIn(now, s.loc)
	workers, err := s.workerRepo.ListByRUTInActiveCampaigns(actor.RUT)
	if err != nil {
		return nil, err
	}
	items := make([]PortalItem, 0, len(workers))
	for _, worker := range workers {
		blocked, err := s.blockedRepo.Exists(worker.CampaignID, today)
		if err != nil {
			return nil, err
		}
		auths, err := s.authRepo.ListByWorker(worker.ID, false)
		if err != nil {
			return nil, err
		}
		schedules, err := s.scheduleRepo.ListUpcoming(worker.ID, today)
		if err != nil {
			return nil, err
		}
		items = append(items, PortalItem{
			Worker:         worker,
			ClaimCode:      worker.ClaimCode,
			QRPayload:      worker.ClaimCode,
			PickedUp:       worker.PickedUp(),
			BlockedToday:   blocked,
			Authorizations: auths,
			Schedules:      schedules,
		})
	}
	return items, nil
}
