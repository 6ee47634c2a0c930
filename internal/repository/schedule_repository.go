package repository

import (
	"errors"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
)

// ScheduleRepository pickup schedule data access
type ScheduleRepository interface {
	Create(item *models.PickupSchedule) error
	GetByWorkerAndDate(workerID uint, day time.Time) (*models.PickupSchedule, error)
	ListUpcoming(workerID uint, from time.Time) ([]models.PickupSchedule, error)
	MarkConfirmed(id uint, at time.Time) error
	WithTx(tx *gorm.DB) *GormScheduleRepository
}

// GormScheduleRepository gorm implementation
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates the schedule repository.
func NewScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormScheduleRepository) WithTx(tx *gorm.DB) *GormScheduleRepository {
	if tx == nil {
		return r
	}
	return &GormScheduleRepository{db: tx}
}

// Create inserts a schedule.
func (r *GormScheduleRepository) Create(item *models.PickupSchedule) error {
	if item == nil {
		return errors.New("schedule is nil")
	}
	item.ScheduledDate = models.Day(item.ScheduledDate)
	return r.db.Create(item).Error
}

// GetByWorkerAndDate returns nil when nothing is booked that day.
func (r *GormScheduleRepository) GetByWorkerAndDate(workerID uint, day time.Time) (*models.PickupSchedule, error) {
	var item models.PickupSchedule
	err := r.db.Where("worker_id = ? AND scheduled_date = ?", workerID, models.Day(day)).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListUpcoming returns schedules on or after from.
func (r *GormScheduleRepository) ListUpcoming(workerID uint, from time.Time) ([]models.PickupSchedule, error) {
	items := make([]models.PickupSchedule, 0)
	err := r.db.Where("worker_id = ? AND scheduled_date >= ?", workerID, models.Day(from)).
		Order("scheduled_date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkConfirmed flags the schedule as honoured.
func (r *GormScheduleRepository) MarkConfirmed(id uint, at time.Time) error {
	return r.db.Model(&models.PickupSchedule{}).Where("id = ?", id).Updates(map[string]interface{}{
		"confirmed_today": true,
		"confirmed_at":    at,
	}).Error
}
