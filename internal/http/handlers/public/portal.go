package public

import (
	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateAuthorizationRequest third party allowed to collect the caller's box.
type CreateAuthorizationRequest struct {
	WorkerID  uint   `json:"worker_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	RUT       string `json:"rut" binding:"required"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	SingleUse bool   `json:"single_use"`
}

// CreateScheduleRequest planned pickup day.
type CreateScheduleRequest struct {
	WorkerID uint   `json:"worker_id" binding:"required"`
	Date     string `json:"date" binding:"required"` // YYYY-MM-DD
}

// portalActor completes the actor with the caller's RUT, which the token does not carry.
func (h *Handler) portalActor(c *gin.Context) (service.Actor, bool) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return actor, false
	}
	user, err := h.UserService.Get(actor.UserID)
	if err != nil {
		respondServiceError(c, err)
		return actor, false
	}
	actor.RUT = user.RUTValue()
	return actor, true
}

// ownWorker fails with ErrWorkerNotFound unless workerID belongs to the caller.
func (h *Handler) ownWorker(c *gin.Context, actor service.Actor, workerID uint) bool {
	owned, err := h.AuthorizationService.OwnedBy(workerID, actor.RUT)
	if err != nil {
		respondError(c, response.CodeInternal, "error.worker_fetch_failed", err)
		return false
	}
	if !owned {
		respondServiceError(c, service.ErrWorkerNotFound)
		return false
	}
	return true
}

// GetPortalStatus lists the caller's boxes in active campaigns.
func (h *Handler) GetPortalStatus(c *gin.Context) {
	actor, ok := h.portalActor(c)
	if !ok {
		return
	}
	items, err := h.WorkerPortalService.Status(actor, h.now())
	if err != nil {
		respondError(c, response.CodeInternal, "error.portal_fetch_failed", err)
		return
	}
	response.Success(c, items)
}

// ListPortalAuthorizations lists authorizations of one of the caller's worker records.
func (h *Handler) ListPortalAuthorizations(c *gin.Context) {
	actor, ok := h.portalActor(c)
	if !ok {
		return
	}
	workerID := handlershared.QueryUint(c, "worker_id")
	if !h.ownWorker(c, actor, workerID) {
		return
	}
	items, err := h.AuthorizationService.ListByWorker(workerID, false)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authorization_fetch_failed", err)
		return
	}
	response.Success(c, items)
}

// CreatePortalAuthorization lets the caller authorize a third party.
func (h *Handler) CreatePortalAuthorization(c *gin.Context) {
	actor, ok := h.portalActor(c)
	if !ok {
		return
	}
	var req CreateAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	date, err := models.ParseDay(req.Date)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}
	if !h.ownWorker(c, actor, req.WorkerID) {
		return
	}
	item, err := h.AuthorizationService.Create(service.CreateAuthorizationInput{
		WorkerID:  req.WorkerID,
		Name:      req.Name,
		RUT:       req.RUT,
		Date:      date,
		SingleUse: req.SingleUse,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// RevokePortalAuthorization deactivates one of the caller's authorizations.
func (h *Handler) RevokePortalAuthorization(c *gin.Context) {
	actor, ok := h.portalActor(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.AuthorizationRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.authorization_fetch_failed", err)
		return
	}
	if item == nil {
		respondServiceError(c, service.ErrAuthorizationNotFound)
		return
	}
	if !h.ownWorker(c, actor, item.WorkerID) {
		return
	}
	if err := h.AuthorizationService.Revoke(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPortalSchedules lists upcoming pickup days of one of the caller's worker records.
func (h *Handler) ListPortalSchedules(c *gin.Context) {
	actor, ok := h.portalActor(c)
	if !ok {
		return
	}
	workerID := handlershared.QueryUint(c, "worker_id")
	if !h.ownWorker(c, actor, workerID) {
		return
	}
	items, err := h.ScheduleService.Upcoming(workerID, h.now())
	if err != nil {
		respondError(c, response.CodeInternal, "error.schedule_fetch_failed", err)
		return
	}
	response.Success(c, items)
}

// CreatePortalSchedule plans a pickup day.
func (h *Handler) CreatePortalSchedule(c *gin.Context) {
	actor, ok := h.portalActor(c)
	if !ok {
		return
	}
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	date, err := models.ParseDay(req.Date)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}
	if !h.ownWorker(c, actor, req.WorkerID) {
		return
	}
	item, err := h.ScheduleService.Schedule(req.WorkerID, date, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}
