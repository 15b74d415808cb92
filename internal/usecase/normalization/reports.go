package normalization

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

type SubmitReportInput struct {
	JobID       string
	ReporterID  string
	Type        trust.ReportType
	Severity    trust.RiskLevel
	Description string
	Evidence    []string
}

// SubmitReport files a complaint against a stored posting. The report enters
// PENDING state; counters and credibility only move on resolution.
func (s *Service) SubmitReport(ctx context.Context, input SubmitReportInput) (ports.JobReport, error) {
	if ctx == nil {
		return ports.JobReport{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.JobReport{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil || s.reports == nil {
		return ports.JobReport{}, errors.New("repositories are required")
	}
	if strings.TrimSpace(input.JobID) == "" {
		return ports.JobReport{}, errors.New("job id is required")
	}
	if !validReportType(input.Type) {
		return ports.JobReport{}, errors.New("unknown report type")
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		return ports.JobReport{}, err
	}

	severity := input.Severity
	if severity == "" {
		severity = defaultReportSeverity(input.Type)
	}

	report, err := s.reports.CreateReport(ctx, ports.JobReport{
		JobID:       job.JobID,
		EmployerID:  job.CompanyID,
		ReporterID:  strings.TrimSpace(input.ReporterID),
		Type:        input.Type,
		Severity:    severity,
		Status:      trust.ReportPending,
		Description: strings.TrimSpace(input.Description),
		Evidence:    input.Evidence,
		CreatedAt:   s.nowUTCString(),
	})
	if err != nil {
		return ports.JobReport{}, err
	}

	logging.Info(ctx, "report submitted",
		slog.String("report_id", report.ReportID),
		slog.String("job_id", report.JobID),
		slog.String("type", string(report.Type)))
	return report, nil
}

type ResolveReportInput struct {
	ReportID   string
	Status     trust.ReportStatus
	ResolvedBy string
	Resolution string
}

// ResolveReport moves a report to a terminal status. A VERIFIED verdict
// bumps the employer's report tallies and triggers a credibility
// reassessment; DISMISSED and RESOLVED leave the tallies alone.
func (s *Service) ResolveReport(ctx context.Context, input ResolveReportInput) (ports.JobReport, error) {
	if ctx == nil {
		return ports.JobReport{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.JobReport{}, errs.Wrap(err, "check context")
	}
	if s.reports == nil || s.employers == nil {
		return ports.JobReport{}, errors.New("repositories are required")
	}
	if !terminalReportStatus(input.Status) {
		return ports.JobReport{}, errors.New("resolution status must be terminal")
	}

	report, err := s.reports.GetReport(ctx, input.ReportID)
	if err != nil {
		return ports.JobReport{}, err
	}
	if terminalReportStatus(report.Status) {
		return ports.JobReport{}, errors.New("report is already resolved")
	}

	now := s.nowUTCString()
	if err := s.reports.SetResolution(ctx, report.ReportID, input.Status,
		strings.TrimSpace(input.ResolvedBy), strings.TrimSpace(input.Resolution), now); err != nil {
		return ports.JobReport{}, err
	}
	report.Status = input.Status
	report.ResolvedBy = strings.TrimSpace(input.ResolvedBy)
	report.Resolution = strings.TrimSpace(input.Resolution)
	report.ResolvedAt = &now

	if input.Status == trust.ReportVerified && report.EmployerID != "" {
		if err := s.applyVerifiedReport(ctx, report); err != nil {
			return ports.JobReport{}, err
		}
	}

	logging.Info(ctx, "report resolved",
		slog.String("report_id", report.ReportID),
		slog.String("status", string(report.Status)))
	return report, nil
}

// applyVerifiedReport translates a verified verdict into counter increments
// and refreshes the employer's assessment.
func (s *Service) applyVerifiedReport(ctx context.Context, report ports.JobReport) error {
	counters := ReportCountersFor(report.Type)
	if counters == (ports.ReportCounters{}) {
		return nil
	}

	unlock := s.lockEmployer(report.EmployerID)
	defer unlock()

	err := s.employers.ApplyReportCounters(ctx, report.EmployerID, counters, s.nowUTCString())
	if errs.IsNotFound(err) {
		// The posting predates any employer profile; create one so the
		// verdict is not lost.
		if _, err := s.employers.CreateEmployer(ctx, ports.EmployerProfile{
			EmployerID: report.EmployerID,
			CreatedAt:  s.nowUTCString(),
			UpdatedAt:  s.nowUTCString(),
		}); err != nil {
			return err
		}
		err = s.employers.ApplyReportCounters(ctx, report.EmployerID, counters, s.nowUTCString())
	}
	if err != nil {
		return err
	}

	profile, err := s.employers.GetEmployer(ctx, report.EmployerID)
	if err != nil {
		return err
	}
	_, err = s.reassess(ctx, profile)
	return err
}

// ReportCountersFor maps a verified report type onto employer tallies.
func ReportCountersFor(reportType trust.ReportType) ports.ReportCounters {
	switch reportType {
	case trust.ReportScam:
		return ports.ReportCounters{ScamReports: 1, VerifiedScams: 1}
	case trust.ReportFakeCompany:
		return ports.ReportCounters{ScamReports: 1, FakeJobs: 1}
	case trust.ReportSpam, trust.ReportMisleading:
		return ports.ReportCounters{ScamReports: 1}
	default:
		return ports.ReportCounters{}
	}
}

func defaultReportSeverity(reportType trust.ReportType) trust.RiskLevel {
	switch reportType {
	case trust.ReportScam, trust.ReportFakeCompany:
		return trust.RiskHigh
	case trust.ReportSpam, trust.ReportMisleading, trust.ReportDiscrimination:
		return trust.RiskMedium
	default:
		return trust.RiskLow
	}
}

func validReportType(t trust.ReportType) bool {
	switch t {
	case trust.ReportScam, trust.ReportSpam, trust.ReportFakeCompany,
		trust.ReportMisleading, trust.ReportDiscrimination, trust.ReportOther:
		return true
	}
	return false
}

func terminalReportStatus(status trust.ReportStatus) bool {
	switch status {
	case trust.ReportVerified, trust.ReportDismissed, trust.ReportResolved:
		return true
	}
	return false
}
