package repository

import (
	"errors"
	"time"

	"github.com/tresmontes-cajas/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CodeSequenceRepository claim-code counters
type CodeSequenceRepository interface {
	Next(datePrefix, short string, floor func() (int, error)) (int, error)
	Get(datePrefix, short string) (*models.CodeSequence, error)
	WithTx(tx *gorm.DB) *GormCodeSequenceRepository
}

// GormCodeSequenceRepository gorm implementation
type GormCodeSequenceRepository struct {
	db *gorm.DB
}

// NewCodeSequenceRepository creates the counter repository.
func NewCodeSequenceRepository(db *gorm.DB) *GormCodeSequenceRepository {
	return &GormCodeSequenceRepository{db: db}
}

// WithTx binds a transaction.
func (r *GormCodeSequenceRepository) WithTx(tx *gorm.DB) *GormCodeSequenceRepository {
	if tx == nil {
		return r
	}
	return &GormCodeSequenceRepository{db: tx}
}

func (r *GormCodeSequenceRepository) bucket(datePrefix, short string) *gorm.DB {
	return r.db.Model(&models.CodeSequence{}).Where("date_prefix = ? AND short_code = ?", datePrefix, short)
}

// Get returns nil when the bucket has no counter yet.
func (r *GormCodeSequenceRepository) Get(datePrefix, short string) (*models.CodeSequence, error) {
	var seq models.CodeSequence
	if err := r.bucket(datePrefix, short).First(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seq, nil
}

// Next increments the bucket counter and returns the new value. floor, when set, reports
// the highest sequence already in use; the counter jumps past it so codes written outside
// the counter (legacy rows, renumbering) are never handed out again. Must run inside the
// caller's transaction.
func (r *GormCodeSequenceRepository) Next(datePrefix, short string, floor func() (int, error)) (int, error) {
	now := time.Now()
	row := models.CodeSequence{DatePrefix: datePrefix, ShortCode: short, UpdatedAt: now}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return 0, err
	}

	// the increment holds the row lock until the transaction ends
	res := r.bucket(datePrefix, short).Updates(map[string]interface{}{
		"last_value": gorm.Expr("last_value + 1"),
		"updated_at": now,
	})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 1 {
		return 0, errors.New("code sequence bucket not found")
	}

	query := r.bucket(datePrefix, short)
	if isPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var seq models.CodeSequence
	if err := query.First(&seq).Error; err != nil {
		return 0, err
	}
	if floor == nil {
		return seq.LastValue, nil
	}

	highest, err := floor()
	if err != nil {
		return 0, err
	}
	if highest < seq.LastValue {
		return seq.LastValue, nil
	}
	value := highest + 1
	if err := r.bucket(datePrefix, short).Update("last_value", value).Error; err != nil {
		return 0, err
	}
	return value, nil
}
