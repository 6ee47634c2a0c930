package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/provider"
	"github.com/tresmontes-cajas/internal/queue"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/hibiken/asynq"
)

type renumberRunner interface {
	Renumber(ctx context.Context, dryRun bool) (*service.RenumberSummary, error)
}

type exportWriter interface {
	WriteExport(campaignID uint, kind string) (string, error)
}

// Consumer background task consumer
type Consumer struct {
	renumber renumberRunner
	exports  exportWriter
}

// NewConsumer wires the consumer to the container services.
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil {
		return &Consumer{}
	}
	return &Consumer{
		renumber: c.RenumberService,
		exports:  c.ReportService,
	}
}

// Register binds task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskClaimCodeRenumber, c.handleRenumber)
	mux.HandleFunc(queue.TaskReportExport, c.handleReportExport)
}

func (c *Consumer) handleRenumber(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.renumber == nil {
		logger.Debugw("worker_renumber_skip_nil", "task_nil", task == nil)
		return nil
	}
	var payload queue.RenumberPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_renumber_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	summary, err := c.renumber.Renumber(ctx, payload.DryRun)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateClaimCode) {
			logger.Errorw("worker_renumber_collision", "requested_by", payload.RequestedBy, "error", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		logger.Warnw("worker_renumber_failed", "requested_by", payload.RequestedBy, "error", err)
		return err
	}
	logger.Infow("worker_renumber_done",
		"requested_by", payload.RequestedBy,
		"request_id", payload.RequestID,
		"dry_run", summary.DryRun,
		"rewritten", summary.Rewritten,
	)
	return nil
}

func (c *Consumer) handleReportExport(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.exports == nil {
		logger.Debugw("worker_report_export_skip_nil", "task_nil", task == nil)
		return nil
	}
	var payload queue.ReportExportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_report_export_unmarshal_failed", "error", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.CampaignID == 0 {
		logger.Debugw("worker_report_export_skip_invalid_payload", "campaign_id", payload.CampaignID)
		return nil
	}
	path, err := c.exports.WriteExport(payload.CampaignID, payload.Kind)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCampaignNotFound), errors.Is(err, service.ErrExportKindInvalid):
			logger.Debugw("worker_report_export_skip", "campaign_id", payload.CampaignID, "kind", payload.Kind, "error", err)
			return nil
		default:
			logger.Warnw("worker_report_export_failed", "campaign_id", payload.CampaignID, "kind", payload.Kind, "error", err)
			return err
		}
	}
	logger.Infow("worker_report_export_done", "campaign_id", payload.CampaignID, "kind", payload.Kind, "path", path)
	return nil
}
