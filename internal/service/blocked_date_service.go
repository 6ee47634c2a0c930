package service

import (
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
)

var blockReasons = map[string]struct{}{
	models.BlockReasonEmergency:   {},
	models.BlockReasonHoliday:     {},
	models.BlockReasonMaintenance: {},
	models.BlockReasonOther:       {},
}

func normalizeBlockReason(raw string) string {
	reason := strings.ToLower(strings.TrimSpace(raw))
	if reason == "" {
		return models.BlockReasonEmergency
	}
	if _, ok := blockReasons[reason]; ok {
		return reason
	}
	return models.BlockReasonOther
}

// BlockedDateService manages days on which a campaign accepts no pickups.
type BlockedDateService struct {
	campaignRepo repository.CampaignRepository
	blockedRepo  repository.BlockedDateRepository
	audit        *AuditService
}

// NewBlockedDateService creates the service.
func NewBlockedDateService(campaignRepo repository.CampaignRepository, blockedRepo repository.BlockedDateRepository, audit *AuditService) *BlockedDateService {
	return &BlockedDateService{campaignRepo: campaignRepo, blockedRepo: blockedRepo, audit: audit}
}

// Block adds a blocked day inside the campaign range.
func (s *BlockedDateService) Block(actor Actor, campaignID uint, date time.Time, reason, description string) (*models.BlockedDate, error) {
	campaign, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	day := models.Day(date)
	if !campaign.Covers(day) {
		return nil, ErrBlockedDateOutOfRange
	}
	existing, err := s.blockedRepo.GetByCampaignAndDate(campaignID, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrBlockedDateExists
	}

	item := &models.BlockedDate{
		CampaignID:  campaignID,
		Date:        day,
		Reason:      normalizeBlockReason(reason),
		Description: strings.TrimSpace(description),
		BlockedBy:   actor.userIDPtr(),
	}
	if err := s.blockedRepo.Create(item); err != nil {
		if isUniqueViolation(err, "") {
			return nil, ErrBlockedDateExists
		}
		return nil, err
	}
	s.audit.recordQuietly(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionDateBlock,
		CampaignID: &campaignID,
		Detail:     models.JSON{"date": day.Format(time.DateOnly), "reason": item.Reason},
	})
	return item, nil
}

// Unblock removes a blocked day.
func (s *BlockedDateService) Unblock(actor Actor, id uint) error {
	item, err := s.blockedRepo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrBlockedDateNotFound
	}
	if err := s.blockedRepo.Delete(id); err != nil {
		return err
	}
	s.audit.recordQuietly(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionDateUnblock,
		CampaignID: &item.CampaignID,
		Detail:     models.JSON{"date": item.Date.Format(time.DateOnly)},
	})
	return nil
}

// List returns the blocked days of a campaign.
func (s *BlockedDateService) List(campaignID uint) ([]models.BlockedDate, error) {
	return s.blockedRepo.ListByCampaign(campaignID)
}

// IsBlocked reports whether pickups are blocked on date.
func (s *BlockedDateService) IsBlocked(campaignID uint, date time.Time) (bool, error) {
	return s.blockedRepo.Exists(campaignID, date)
}
