package public

import (
	"strings"

	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest login body.
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// ChangePasswordRequest password change body.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// Login issues a token for valid credentials.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	username := strings.TrimSpace(req.Username)
	result, err := h.AuthService.Login(c.Request.Context(), service.LoginInput{
		Username: username,
		Password: req.Password,
		Captcha:  req.CaptchaPayload.ToServicePayload(),
	})
	h.recordLogin(c, username, result, err)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt,
		"user":       result.User,
	})
}

func (h *Handler) recordLogin(c *gin.Context, username string, result *service.LoginResult, loginErr error) {
	input := service.RecordUserLoginInput{
		Username:  username,
		Err:       loginErr,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString("request_id"),
	}
	if result != nil && result.User != nil {
		input.UserID = result.User.ID
	} else if user, err := h.UserRepo.GetByUsername(username); err == nil && user != nil {
		input.UserID = user.ID
	}
	if err := h.UserLoginLogService.Record(input); err != nil {
		handlershared.RequestLog(c).Warnw("login_log_record_failed", "error", err)
	}
}

// ListMyLoginLogs returns the caller's recent login attempts.
func (h *Handler) ListMyLoginLogs(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PageParams(c)
	items, total, err := h.UserLoginLogService.ListByUser(actor.UserID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_log_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetCurrentUser returns the caller's account.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	user, err := h.UserService.Get(actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// ChangePassword replaces the caller's password; older tokens stop working.
func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthService.ChangePassword(c.Request.Context(), actor.UserID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPlants lists active plants.
func (h *Handler) ListPlants(c *gin.Context) {
	plants, err := h.PlantRepo.List(true)
	if err != nil {
		respondError(c, response.CodeInternal, "error.plant_fetch_failed", err)
		return
	}
	response.Success(c, plants)
}
