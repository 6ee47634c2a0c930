package public

import (
	"strconv"

	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

// ConfirmPickupRequest guard confirmation body.
type ConfirmPickupRequest struct {
	WorkerID       uint   `json:"worker_id" binding:"required"`
	PlantID        uint   `json:"plant_id"`
	ByThirdParty   bool   `json:"by_third_party"`
	ThirdPartyName string `json:"third_party_name"`
	ThirdPartyRUT  string `json:"third_party_rut"`
	Notes          string `json:"notes"`
}

// ConfirmQRRequest scanned claim code.
type ConfirmQRRequest struct {
	ClaimCode string `json:"claim_code" binding:"required"`
	PlantID   uint   `json:"plant_id"`
}

// AppendNoteRequest extra pickup note.
type AppendNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// guardPlant returns the plant an operation runs at: a guard's own plant, or whatever an
// admin asked for (0 = any).
func guardPlant(actor service.Actor, requested uint) uint {
	if actor.IsAdmin() {
		return requested
	}
	return actor.PlantID
}

// LookupWorker finds the worker with the given RUT in today's campaigns at the guard's plant.
func (h *Handler) LookupWorker(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	rawRUT := c.Query("rut")
	if rawRUT == "" {
		respondError(c, response.CodeBadRequest, "error.rut_required", nil)
		return
	}
	plantID := guardPlant(actor, handlershared.QueryUint(c, "plant_id"))
	result, err := h.PickupService.Lookup(actor, plantID, rawRUT, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ConfirmPickup records a box delivery.
func (h *Handler) ConfirmPickup(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	var req ConfirmPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	pickup, err := h.PickupService.Confirm(c.Request.Context(), actor, req.WorkerID, service.ConfirmInput{
		PlantID:        guardPlant(actor, req.PlantID),
		ByThirdParty:   req.ByThirdParty,
		ThirdPartyName: req.ThirdPartyName,
		ThirdPartyRUT:  req.ThirdPartyRUT,
		Notes:          req.Notes,
	}, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pickup)
}

// ConfirmPickupByQR confirms the delivery of a scanned claim code.
func (h *Handler) ConfirmPickupByQR(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	var req ConfirmQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	pickup, err := h.PickupService.ConfirmByQR(c.Request.Context(), actor, guardPlant(actor, req.PlantID), req.ClaimCode, h.now())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pickup)
}

// AppendPickupNote adds a note to a pickup confirmed at the guard's plant.
func (h *Handler) AppendPickupNote(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	id, ok := handlershared.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req AppendNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	current, err := h.PickupRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.pickup_fetch_failed", err)
		return
	}
	if current == nil {
		respondServiceError(c, service.ErrPickupNotFound)
		return
	}
	if plantID := guardPlant(actor, 0); plantID != 0 && current.PlantID != plantID {
		respondServiceError(c, service.ErrPlantMismatch)
		return
	}
	pickup, err := h.PickupService.AppendNote(c.Request.Context(), id, req.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, pickup)
}

// ListRecentPickups lists the latest confirmations at the guard's plant.
func (h *Handler) ListRecentPickups(c *gin.Context) {
	actor, ok := handlershared.RequireActor(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	items, err := h.PickupService.Recent(guardPlant(actor, handlershared.QueryUint(c, "plant_id")), limit)
	if err != nil {
		respondError(c, response.CodeInternal, "error.pickup_fetch_failed", err)
		return
	}
	response.Success(c, items)
}
