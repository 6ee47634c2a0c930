package admin

import (
	"errors"
	"strings"

	"github.com/tresmontes-cajas/internal/constants"
	handlershared "github.com/tresmontes-cajas/internal/http/handlers/shared"
	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/queue"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportJobRequest asynchronous workbook export.
type ExportJobRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// GetReportSummary returns campaigns overlapping the period (hoy, semana, mes, anio).
func (h *Handler) GetReportSummary(c *gin.Context) {
	period := strings.TrimSpace(c.DefaultQuery("period", constants.PeriodToday))
	summary, err := h.ReportService.Summary(handlershared.QueryUint(c, "plant_id"), period, h.now())
	if err != nil {
		respondError(c, response.CodeInternal, "error.report_failed", err)
		return
	}
	response.Success(c, summary)
}

// ExportCampaign streams the delivered or pending workbook of a campaign.
func (h *Handler) ExportCampaign(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	kind := strings.TrimSpace(c.DefaultQuery("kind", constants.ExportDelivered))
	file, err := h.ReportService.Export(id, kind)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Attachment(c, file.FileName, xlsxContentType, file.Data)
}

// EnqueueCampaignExport hands a workbook export to the background worker.
func (h *Handler) EnqueueCampaignExport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ExportJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	kind := strings.TrimSpace(req.Kind)
	if kind != constants.ExportDelivered && kind != constants.ExportPending {
		respondServiceError(c, service.ErrExportKindInvalid)
		return
	}
	campaign, err := h.CampaignRepo.GetByID(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.campaign_fetch_failed", err)
		return
	}
	if campaign == nil {
		respondServiceError(c, service.ErrCampaignNotFound)
		return
	}

	info, err := h.QueueClient.EnqueueReportExport(queue.ReportExportPayload{
		CampaignID:  id,
		Kind:        kind,
		RequestedBy: actor.UserID,
	})
	if err != nil {
		if errors.Is(err, queue.ErrDisabled) {
			respondServiceError(c, service.ErrQueueUnavailable)
			return
		}
		respondError(c, response.CodeInternal, "error.enqueue_failed", err)
		return
	}
	campaignID := id
	if recordErr := h.AuditService.Record(service.AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionExportRequest,
		CampaignID: &campaignID,
		Detail:     models.JSON{"kind": kind, "task_id": info.ID},
	}); recordErr != nil {
		requestLog(c).Warnw("audit_log_write_failed", "action", constants.AuditActionExportRequest, "error", recordErr)
	}
	response.Success(c, gin.H{"task_id": info.ID, "queue": info.Queue})
}
