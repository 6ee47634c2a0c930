package service

import (
	"errors"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
)

// UserLoginLogService records login attempts for the admin security view.
type UserLoginLogService struct {
	repo repository.UserLoginLogRepository
}

// NewUserLoginLogService creates the login log service.
func NewUserLoginLogService(repo repository.UserLoginLogRepository) *UserLoginLogService {
	return &UserLoginLogService{repo: repo}
}

// RecordUserLoginInput one login attempt.
type RecordUserLoginInput struct {
	UserID    uint
	Username  string
	Err       error
	ClientIP  string
	UserAgent string
	RequestID string
}

// Record stores an attempt; a nil Err marks it successful.
func (s *UserLoginLogService) Record(input RecordUserLoginInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	status := constants.LoginLogStatusSuccess
	failReason := ""
	if input.Err != nil {
		status = constants.LoginLogStatusFailed
		failReason = LoginFailReason(input.Err)
	}
	return s.repo.Create(&models.UserLoginLog{
		UserID:     input.UserID,
		Username:   strings.TrimSpace(input.Username),
		Status:     status,
		FailReason: failReason,
		ClientIP:   strings.TrimSpace(input.ClientIP),
		UserAgent:  strings.TrimSpace(input.UserAgent),
		RequestID:  strings.TrimSpace(input.RequestID),
		CreatedAt:  time.Now(),
	})
}

// LoginFailReason classifies a Login error.
func LoginFailReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return constants.LoginLogFailReasonInvalidCredentials
	case errors.Is(err, ErrUserDisabled):
		return constants.LoginLogFailReasonUserDisabled
	case errors.Is(err, ErrCaptchaRequired):
		return constants.LoginLogFailReasonCaptchaRequired
	case errors.Is(err, ErrCaptchaInvalid):
		return constants.LoginLogFailReasonCaptchaInvalid
	}
	return constants.LoginLogFailReasonInternalError
}

// List admin query.
func (s *UserLoginLogService) List(filter repository.UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.UserLoginLog{}, 0, nil
	}
	return s.repo.List(filter)
}

// ListByUser the caller's own recent attempts.
func (s *UserLoginLogService) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if s == nil || s.repo == nil || userID == 0 {
		return []models.UserLoginLog{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.repo.ListByUser(userID, page, pageSize)
}
