package admin

import (
	"strings"
	"time"

	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

const rosterFormField = "roster"

// BulkDeleteCampaignsRequest campaign ids to delete.
type BulkDeleteCampaignsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ListCampaigns pages through campaigns with their delivery stats.
func (h *Handler) ListCampaigns(c *gin.Context) {
	page, pageSize := handlershared.PageParams(c)
	items, total, err := h.CampaignService.List(repository.CampaignListFilter{
		Page:      page,
		PageSize:  pageSize,
		PlantID:   handlershared.QueryUint(c, "plant_id"),
		Active:    handlershared.QueryBool(c, "active"),
		Search:    strings.TrimSpace(c.Query("search")),
		WithPlant: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.campaign_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// GetCampaign returns a campaign with its stats.
func (h *Handler) GetCampaign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	detail, err := h.CampaignService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, detail)
}

// CreateCampaign creates a campaign from a multipart form: name, start_date, end_date,
// plant_id, optional blocked_dates (comma separated) and block_reason, plus the roster file.
func (h *Handler) CreateCampaign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	start, err := models.ParseDay(strings.TrimSpace(c.PostForm("start_date")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}
	end, err := models.ParseDay(strings.TrimSpace(c.PostForm("end_date")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
		return
	}
	blocked, ok := parseBlockedDates(c, c.PostForm("blocked_dates"))
	if !ok {
		return
	}
	plantID := handlershared.ParseUintString(c.PostForm("plant_id"))

	fileHeader, err := c.FormFile(rosterFormField)
	if err != nil {
		respondServiceError(c, service.ErrRosterFileRequired)
		return
	}
	stored, err := h.UploadService.SaveRosterFile(fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result, err := h.CampaignService.Create(c.Request.Context(), actor, service.CreateCampaignInput{
		Name:         c.PostForm("name"),
		StartDate:    start,
		EndDate:      end,
		PlantID:      plantID,
		BlockedDates: blocked,
		BlockReason:  c.PostForm("block_reason"),
	}, stored)
	if err != nil {
		if removeErr := h.UploadService.Remove(stored.Path); removeErr != nil {
			requestLog(c).Warnw("roster_file_remove_failed", "path", stored.Path, "error", removeErr)
		}
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ImportCampaignRoster runs another roster import on an existing campaign.
func (h *Handler) ImportCampaignRoster(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile(rosterFormField)
	if err != nil {
		respondServiceError(c, service.ErrRosterFileRequired)
		return
	}
	stored, err := h.UploadService.SaveRosterFile(fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result, err := h.CampaignService.ImportRoster(c.Request.Context(), actor, id, stored)
	if err != nil {
		if removeErr := h.UploadService.Remove(stored.Path); removeErr != nil {
			requestLog(c).Warnw("roster_file_remove_failed", "path", stored.Path, "error", removeErr)
		}
		respondServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// ListCampaignImports lists the roster runs of a campaign.
func (h *Handler) ListCampaignImports(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PageParams(c)
	items, total, err := h.RosterImportService.History(id, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.campaign_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// ToggleCampaign flips the active flag.
func (h *Handler) ToggleCampaign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	campaign, err := h.CampaignService.ToggleActive(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, campaign)
}

// DeleteCampaign deletes a campaign and everything under it.
func (h *Handler) DeleteCampaign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.CampaignService.Delete(c.Request.Context(), actor, id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// BulkDeleteCampaigns deletes several campaigns; unknown ids are skipped.
func (h *Handler) BulkDeleteCampaigns(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req BulkDeleteCampaignsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	deleted, err := h.CampaignService.BulkDelete(c.Request.Context(), actor, req.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	logger.Infow("admin_campaigns_bulk_deleted", "operator_user_id", actor.UserID, "requested", len(req.IDs), "deleted", deleted)
	response.Success(c, gin.H{"deleted": deleted})
}

// GetCampaignStats returns total, delivered, pending and delivery rate.
func (h *Handler) GetCampaignStats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	stats, err := h.CampaignService.Stats(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, stats)
}

// ListCampaignWorkers pages through the workers of a campaign.
func (h *Handler) ListCampaignWorkers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PageParams(c)
	status := strings.TrimSpace(c.Query("status"))
	if status != repository.WorkerStatusDelivered && status != repository.WorkerStatusPending {
		status = ""
	}
	items, total, err := h.WorkerRepo.List(repository.WorkerListFilter{
		Page:       page,
		PageSize:   pageSize,
		CampaignID: id,
		PlantID:    handlershared.QueryUint(c, "plant_id"),
		Status:     status,
		Search:     strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.worker_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// parseBlockedDates reads a comma or newline separated list of YYYY-MM-DD days.
func parseBlockedDates(c *gin.Context, raw string) ([]time.Time, bool) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	days := make([]time.Time, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		day, err := models.ParseDay(field)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.date_invalid", nil)
			return nil, false
		}
		days = append(days, day)
	}
	return days, true
}
