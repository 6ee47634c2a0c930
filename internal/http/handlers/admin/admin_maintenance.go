package admin

import (
	"errors"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/constants"
	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/queue"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// RenumberRequest claim-code renumbering. Dry runs always execute inline.
type RenumberRequest struct {
	DryRun bool `json:"dry_run"`
	Async  bool `json:"async"`
}

// RenumberClaimCodes renumbers delivered claim codes per pickup day and plant, either
// inline or through the worker queue.
func (h *Handler) RenumberClaimCodes(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req RenumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if req.Async && !req.DryRun {
		info, err := h.QueueClient.EnqueueRenumber(queue.RenumberPayload{
			RequestedBy: actor.UserID,
			RequestID:   actor.RequestID,
		})
		switch {
		case errors.Is(err, queue.ErrDisabled):
			respondServiceError(c, service.ErrQueueUnavailable)
			return
		case errors.Is(err, asynq.ErrDuplicateTask), errors.Is(err, asynq.ErrTaskIDConflict):
			respondError(c, response.CodeConflict, "error.renumber_in_progress", nil)
			return
		case err != nil:
			respondError(c, response.CodeInternal, "error.enqueue_failed", err)
			return
		}
		h.recordRenumber(c, actor, models.JSON{"async": true, "task_id": info.ID})
		response.Success(c, gin.H{"task_id": info.ID, "queue": info.Queue})
		return
	}

	summary, err := h.RenumberService.Renumber(c.Request.Context(), req.DryRun)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !req.DryRun {
		h.recordRenumber(c, actor, models.JSON{"async": false, "rewritten": summary.Rewritten})
	}
	response.Success(c, summary)
}

func (h *Handler) recordRenumber(c *gin.Context, actor service.Actor, detail models.JSON) {
	if err := h.AuditService.Record(service.AuditRecordInput{
		Actor:  actor,
		Action: constants.AuditActionRenumberRequest,
		Detail: detail,
	}); err != nil {
		requestLog(c).Warnw("audit_log_write_failed", "action", constants.AuditActionRenumberRequest, "error", err)
	}
}

// ListAuditLogs pages through the audit trail.
func (h *Handler) ListAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.PageParams(c)
	from, ok := parseDayQuery(c, "created_from")
	if !ok {
		return
	}
	to, ok := parseDayQuery(c, "created_to")
	if !ok {
		return
	}
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	items, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:           page,
		PageSize:       pageSize,
		OperatorUserID: handlershared.QueryUint(c, "operator_user_id"),
		TargetUserID:   handlershared.QueryUint(c, "target_user_id"),
		CampaignID:     handlershared.QueryUint(c, "campaign_id"),
		Action:         strings.TrimSpace(c.Query("action")),
		CreatedFrom:    from,
		CreatedTo:      to,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.audit_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// ListLoginLogs pages through login attempts.
func (h *Handler) ListLoginLogs(c *gin.Context) {
	page, pageSize := handlershared.PageParams(c)
	from, ok := parseDayQuery(c, "created_from")
	if !ok {
		return
	}
	to, ok := parseDayQuery(c, "created_to")
	if !ok {
		return
	}
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	items, total, err := h.UserLoginLogService.List(repository.UserLoginLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      handlershared.QueryUint(c, "user_id"),
		Username:    strings.TrimSpace(c.Query("username")),
		Status:      strings.TrimSpace(c.Query("status")),
		FailReason:  strings.TrimSpace(c.Query("fail_reason")),
		ClientIP:    strings.TrimSpace(c.Query("client_ip")),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.login_log_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}
