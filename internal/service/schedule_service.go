package service

import (
	"time"

	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
)

// ScheduleService lets workers book the day they will pick up.
type ScheduleService struct {
	workerRepo   repository.WorkerRepository
	scheduleRepo repository.ScheduleRepository
	loc          *time.Location
}

// NewScheduleService creates the service.
func NewScheduleService(workerRepo repository.WorkerRepository, scheduleRepo repository.ScheduleRepository, loc *time.Location) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{workerRepo: workerRepo, scheduleRepo: scheduleRepo, loc: loc}
}

// Schedule books date for a worker. The date must not be in the past.
func (s *ScheduleService) Schedule(workerID uint, date, now time.Time) (*models.PickupSchedule, error) {
	day := models.Day(date)
	if day.Before(models.DayIn(now, s.loc)) {
		return nil, ErrScheduleInPast
	}
	worker, err := s.workerRepo.GetByID(workerID)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, ErrWorkerNotFound
	}
	existing, err := s.scheduleRepo.GetByWorkerAndDate(workerID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrScheduleExists
	}
	item := &models.PickupSchedule{WorkerID: workerID, ScheduledDate: day}
	if err := s.scheduleRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Upcoming lists bookings from today on.
func (s *ScheduleService) Upcoming(workerID uint, now time.Time) ([]models.PickupSchedule, error) {
	return s.scheduleRepo.ListUpcoming(workerID, models.DayIn(now, s.loc))
}
