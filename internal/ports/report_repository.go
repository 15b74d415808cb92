package ports

import (
	"context"
	"errors"

	"jobtrust/internal/domain/trust"
)

var ErrReportNotFound = errors.New("job report not found")

// JobReport is one user-submitted complaint against a posting.
type JobReport struct {
	ReportID    string
	JobID       string
	EmployerID  string
	ReporterID  string
	Type        trust.ReportType
	Severity    trust.RiskLevel
	Status      trust.ReportStatus
	Description string
	Evidence    []string
	ResolvedBy  string
	Resolution  string
	CreatedAt   string
	ResolvedAt  *string
}

type ReportRepository interface {
	CreateReport(ctx context.Context, report JobReport) (JobReport, error)
	GetReport(ctx context.Context, reportID string) (JobReport, error)
	ListReportsForJob(ctx context.Context, jobID string) ([]JobReport, error)
	ListReportsForEmployer(ctx context.Context, employerID string) ([]JobReport, error)
	// SetResolution moves a report to a terminal status and records who
	// resolved it.
	SetResolution(ctx context.Context, reportID string, status trust.ReportStatus,
		resolvedBy string, resolution string, resolvedAt string) error
}
