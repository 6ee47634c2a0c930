package service

import (
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"

	"gorm.io/gorm"
)

// AuditRecordInput one audit entry.
type AuditRecordInput struct {
	Actor        Actor
	Action       string
	TargetUserID *uint
	CampaignID   *uint
	Detail       models.JSON
}

// AuditService writes and lists administrative audit entries.
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService creates the audit service.
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record writes an entry. Anonymous actors and blank actions are ignored.
func (s *AuditService) Record(input AuditRecordInput) error {
	return s.RecordTx(nil, input)
}

// RecordTx writes the entry inside tx when given.
func (s *AuditService) RecordTx(tx *gorm.DB, input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Actor.UserID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	item := &models.AuditLog{
		OperatorUserID:   input.Actor.UserID,
		OperatorUsername: strings.TrimSpace(input.Actor.Username),
		TargetUserID:     input.TargetUserID,
		CampaignID:       input.CampaignID,
		Action:           strings.TrimSpace(input.Action),
		Role:             strings.TrimSpace(input.Actor.Role),
		RequestID:        strings.TrimSpace(input.Actor.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now(),
	}
	return s.repo.WithTx(tx).Create(item)
}

// recordQuietly logs instead of failing the caller.
func (s *AuditService) recordQuietly(input AuditRecordInput) {
	if err := s.Record(input); err != nil {
		logger.Warnw("audit_log_write_failed", "action", input.Action, "error", err)
	}
}

// List pages through entries.
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
