package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/ports"
)

type ReportRepository struct {
	db *gorm.DB
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) CreateReport(ctx context.Context, report ports.JobReport) (ports.JobReport, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.JobReport{}, err
	}
	if strings.TrimSpace(report.JobID) == "" {
		return ports.JobReport{}, errors.New("job id is required")
	}
	if report.ReportID == "" {
		report.ReportID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = trust.ReportPending
	}

	row := model.JobReport{
		ReportID:     report.ReportID,
		JobID:        report.JobID,
		EmployerID:   report.EmployerID,
		ReporterID:   report.ReporterID,
		ReportType:   string(report.Type),
		Severity:     string(report.Severity),
		Status:       string(report.Status),
		Description:  report.Description,
		EvidenceJSON: mustMarshalJSON(emptyWhenNil(report.Evidence)),
		Resolution:   report.Resolution,
		CreatedAt:    report.CreatedAt,
		ResolvedAt:   report.ResolvedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.JobReport{}, errs.Wrap(err, "create job report")
	}
	return report, nil
}

func (r *ReportRepository) GetReport(ctx context.Context, reportID string) (ports.JobReport, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.JobReport{}, err
	}

	var row model.JobReport
	if err := db.Where("report_id = ?", reportID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.JobReport{}, errs.NotFound(ports.ErrReportNotFound)
		}
		return ports.JobReport{}, errs.Wrap(err, "query job report")
	}
	return mapJobReport(row)
}

func (r *ReportRepository) ListReportsForJob(ctx context.Context, jobID string) ([]ports.JobReport, error) {
	return r.listReports(ctx, "job_id = ?", jobID)
}

func (r *ReportRepository) ListReportsForEmployer(ctx context.Context, employerID string) ([]ports.JobReport, error) {
	return r.listReports(ctx, "employer_id = ?", employerID)
}

func (r *ReportRepository) listReports(ctx context.Context, cond string, arg string) ([]ports.JobReport, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	var rows []model.JobReport
	if err := db.Where(cond, arg).Order("created_at asc, report_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query job reports")
	}

	reports := make([]ports.JobReport, 0, len(rows))
	for _, row := range rows {
		report, err := mapJobReport(row)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (r *ReportRepository) SetResolution(ctx context.Context, reportID string, status trust.ReportStatus,
	resolvedBy string, resolution string, resolvedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.JobReport{}).
		Where("report_id = ?", reportID).
		Updates(map[string]any{
			"status":      string(status),
			"resolved_by": resolvedBy,
			"resolution":  resolution,
			"resolved_at": resolvedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "resolve job report")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(ports.ErrReportNotFound)
	}
	return nil
}

func mapJobReport(row model.JobReport) (ports.JobReport, error) {
	report := ports.JobReport{
		ReportID:    row.ReportID,
		JobID:       row.JobID,
		EmployerID:  row.EmployerID,
		ReporterID:  row.ReporterID,
		Type:        trust.ReportType(row.ReportType),
		Severity:    trust.RiskLevel(row.Severity),
		Status:      trust.ReportStatus(row.Status),
		Description: row.Description,
		ResolvedBy:  row.ResolvedBy,
		Resolution:  row.Resolution,
		CreatedAt:   row.CreatedAt,
		ResolvedAt:  row.ResolvedAt,
	}
	if err := unmarshalJSON(row.EvidenceJSON, &report.Evidence, "report evidence"); err != nil {
		return ports.JobReport{}, err
	}
	return report, nil
}
