package queue

import (
	"encoding/json"

	"github.com/tresmontes-cajas/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskClaimCodeRenumber rewrites delivered claim codes per pickup day and plant.
	TaskClaimCodeRenumber = constants.TaskClaimCodeRenumber
	// TaskReportExport writes a campaign workbook to the export directory.
	TaskReportExport = constants.TaskReportExport
)

// RenumberPayload claim-code renumber task payload
type RenumberPayload struct {
	DryRun      bool   `json:"dry_run"`
	RequestedBy uint   `json:"requested_by"`
	RequestID   string `json:"request_id,omitempty"`
}

// ReportExportPayload report export task payload
type ReportExportPayload struct {
	CampaignID  uint   `json:"campaign_id"`
	Kind        string `json:"kind"`
	RequestedBy uint   `json:"requested_by"`
}

// NewRenumberTask builds the renumber task.
func NewRenumberTask(payload RenumberPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClaimCodeRenumber, body), nil
}

// NewReportExportTask builds the export task.
func NewReportExportTask(payload ReportExportPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportExport, body), nil
}
