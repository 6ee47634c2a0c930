package admin

import (
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/models"

	"github.com/gin-gonic/gin"
)

// BlockDateRequest closes a campaign day for pickups.
type BlockDateRequest struct {
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// ListBlockedDates lists the blocked days of a campaign.
func (h *Handler) ListBlockedDates(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	items, err := h.BlockedDateService.List(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// BlockDate blocks one day of a campaign.
func (h *Handler) BlockDate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req BlockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	day, err := models.ParseDay(req.Date)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}
	item, err := h.BlockedDateService.Block(actor, id, day, req.Reason, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, item)
}

// UnblockDate removes a blocked day.
func (h *Handler) UnblockDate(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.BlockedDateService.Unblock(actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
