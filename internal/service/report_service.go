package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tresmontes-cajas/internal/constants"
	"github.com/tresmontes-cajas/internal/logger"
	"github.com/tresmontes-cajas/internal/models"
	"github.com/tresmontes-cajas/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ReportSummary campaigns overlapping a period with their progress.
type ReportSummary struct {
	Period    string                      `json:"period"`
	From      time.Time                   `json:"from"`
	To        time.Time                   `json:"to"`
	Campaigns []CampaignDetail            `json:"campaigns"`
	Totals    CampaignStats               `json:"totals"`
	Daily     []repository.DailyPickupRow `json:"daily"`
}

// ExportFile a generated workbook.
type ExportFile struct {
	FileName string
	Data     []byte
}

var deliveredHeader = []interface{}{
	"Nombre", "RUT", "Tipo de contrato", "Tipo de caja", "Planta", "Código",
	"Fecha retiro", "Confirmado por", "Retiro por tercero", "Nombre tercero", "RUT tercero", "Notas",
}

var pendingHeader = []interface{}{
	"Nombre", "RUT", "Tipo de contrato", "Tipo de caja", "Planta", "Código",
}

// ReportService period summaries and spreadsheet exports.
type ReportService struct {
	campaignRepo repository.CampaignRepository
	reportRepo   repository.ReportRepository
	exportDir    string
	loc          *time.Location
}

// NewReportService creates the service.
func NewReportService(campaignRepo repository.CampaignRepository, reportRepo repository.ReportRepository, exportDir string, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if strings.TrimSpace(exportDir) == "" {
		exportDir = "exports"
	}
	return &ReportService{campaignRepo: campaignRepo, reportRepo: reportRepo, exportDir: exportDir, loc: loc}
}

// NormalizePeriod maps unknown periods to today.
func NormalizePeriod(period string) string {
	switch p := strings.ToLower(strings.TrimSpace(period)); p {
	case constants.PeriodToday, constants.PeriodWeek, constants.PeriodMonth, constants.PeriodYear:
		return p
	}
	return constants.PeriodToday
}

// PeriodRange returns the inclusive day range of period around now:
// hoy is today, semana is Monday..Sunday, mes the calendar month, anio the calendar year.
func PeriodRange(period string, now time.Time, loc *time.Location) (time.Time, time.Time) {
	today := models.DayIn(now, loc)
	switch NormalizePeriod(period) {
	case constants.PeriodWeek:
		offset := (int(today.Weekday()) + 6) % 7
		monday := today.AddDate(0, 0, -offset)
		return monday, monday.AddDate(0, 0, 6)
	case constants.PeriodMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1)
	case constants.PeriodYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC), time.Date(today.Year(), 12, 31, 0, 0, 0, 0, time.UTC)
	default:
		return today, today
	}
}

// Summary lists campaigns overlapping the period, optionally for one plant, with totals.
func (s *ReportService) Summary(plantID uint, period string, now time.Time) (*ReportSummary, error) {
	period = NormalizePeriod(period)
	from, to := PeriodRange(period, now, s.loc)
	campaigns, err := s.campaignRepo.ListOverlapping(from, to, plantID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(campaigns))
	for _, campaign := range campaigns {
		ids = append(ids, campaign.ID)
	}
	counts, err := s.reportRepo.CampaignCounts(ids)
	if err != nil {
		return nil, err
	}
	daily, err := s.reportRepo.DailyPickups(from, to, plantID)
	if err != nil {
		return nil, err
	}

	summary := &ReportSummary{Period: period, From: from, To: to, Daily: daily}
	var total, delivered int64
	for _, campaign := range campaigns {
		stats := buildCampaignStats(counts[campaign.ID])
		stats.CampaignID = campaign.ID
		summary.Campaigns = append(summary.Campaigns, CampaignDetail{Campaign: campaign, Stats: stats})
		total += stats.Total
		delivered += stats.Delivered
	}
	summary.Totals = buildCampaignStats(repository.CampaignCountRow{Total: total, Delivered: delivered})
	return summary, nil
}

// Export builds the workbook of kind (entregados | no_retirados) for a campaign.
func (s *ReportService) Export(campaignID uint, kind string) (*ExportFile, error) {
	switch kind {
	case constants.ExportDelivered:
		return s.ExportDelivered(campaignID)
	case constants.ExportPending:
		return s.ExportPending(campaignID)
	}
	return nil, ErrExportKindInvalid
}

// ExportDelivered lists delivered workers in pickup order.
func (s *ReportService) ExportDelivered(campaignID uint) (*ExportFile, error) {
	campaign, err := s.requireCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.DeliveredRows(campaignID)
	if err != nil {
		return nil, err
	}
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		thirdParty := "No"
		if row.ByThirdParty {
			thirdParty = "Sí"
		}
		data = append(data, []interface{}{
			row.WorkerName, row.RUT, row.ContractType, row.BoxTier, row.PlantName, row.ClaimCode,
			row.PickedUpAt.In(s.loc).Format("02/01/2006 15:04"), row.ConfirmedBy, thirdParty,
			row.ThirdPartyName, row.ThirdPartyRUT, row.Notes,
		})
	}
	content, err := buildWorkbook("Entregados", deliveredHeader, data)
	if err != nil {
		return nil, err
	}
	return &ExportFile{FileName: exportFileName(campaign, constants.ExportDelivered), Data: content}, nil
}

// ExportPending lists workers who have not picked up, by name.
func (s *ReportService) ExportPending(campaignID uint) (*ExportFile, error) {
	campaign, err := s.requireCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	rows, err := s.reportRepo.PendingRows(campaignID)
	if err != nil {
		return nil, err
	}
	data := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		data = append(data, []interface{}{row.WorkerName, row.RUT, row.ContractType, row.BoxTier, row.PlantName, row.ClaimCode})
	}
	content, err := buildWorkbook("No retirados", pendingHeader, data)
	if err != nil {
		return nil, err
	}
	return &ExportFile{FileName: exportFileName(campaign, constants.ExportPending), Data: content}, nil
}

// WriteExport builds the workbook and writes it under the export directory.
func (s *ReportService) WriteExport(campaignID uint, kind string) (string, error) {
	file, err := s.Export(campaignID, kind)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(s.exportDir, file.FileName)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return "", err
	}
	logger.Infow("report_export_written", "campaign_id", campaignID, "kind", kind, "path", path, "bytes", len(file.Data))
	return path, nil
}

func (s *ReportService) requireCampaign(id uint) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

func exportFileName(campaign *models.Campaign, kind string) string {
	return fmt.Sprintf("campania_%d_%s_%s.xlsx", campaign.ID, kind, campaign.StartDate.Format("20060102"))
}

func buildWorkbook(sheet string, header []interface{}, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnw("workbook_close_failed", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return nil, err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return nil, err
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
