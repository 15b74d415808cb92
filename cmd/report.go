package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"jobtrust/internal/bootstrap"
	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
	"jobtrust/internal/usecase/normalization"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Submit and resolve fraud reports against postings",
}

var reportSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "File a report against a stored posting",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		reporterID, _ := cmd.Flags().GetString("reporter")
		reportType, _ := cmd.Flags().GetString("type")
		severity, _ := cmd.Flags().GetString("severity")
		description, _ := cmd.Flags().GetString("description")
		evidence, _ := cmd.Flags().GetStringSlice("evidence")

		report, err := svc.SubmitReport(ctx, normalization.SubmitReportInput{
			JobID:       jobID,
			ReporterID:  reporterID,
			Type:        trust.ReportType(strings.ToUpper(strings.TrimSpace(reportType))),
			Severity:    trust.RiskLevel(strings.ToUpper(strings.TrimSpace(severity))),
			Description: description,
			Evidence:    evidence,
		})
		if err != nil {
			logging.Error(ctx, "submit report failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "submit report")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "report submitted: id=%s job=%s type=%s status=%s\n",
			report.ReportID, report.JobID, report.Type, report.Status); err != nil {
			return errs.Wrap(err, "write submit output")
		}
		return nil
	}),
}

var reportResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Move a report to a terminal status",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		reportID, _ := cmd.Flags().GetString("report")
		status, _ := cmd.Flags().GetString("status")
		resolvedBy, _ := cmd.Flags().GetString("by")
		resolution, _ := cmd.Flags().GetString("resolution")

		report, err := svc.ResolveReport(ctx, normalization.ResolveReportInput{
			ReportID:   reportID,
			Status:     trust.ReportStatus(strings.ToUpper(strings.TrimSpace(status))),
			ResolvedBy: resolvedBy,
			Resolution: resolution,
		})
		if err != nil {
			logging.Error(ctx, "resolve report failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "resolve report")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "report resolved: id=%s status=%s\n",
			report.ReportID, report.Status); err != nil {
			return errs.Wrap(err, "write resolve output")
		}
		return nil
	}),
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports for a posting or an employer",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		employerID, _ := cmd.Flags().GetString("employer")

		switch {
		case jobID != "" && employerID != "":
			return fmt.Errorf("job and employer are mutually exclusive")
		case jobID != "":
			items, err := svc.ListReportsForJob(ctx, jobID)
			if err != nil {
				logging.Error(ctx, "list reports failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "list reports")
			}
			return printReports(cmd, items)
		case employerID != "":
			items, err := svc.ListReportsForEmployer(ctx, employerID)
			if err != nil {
				logging.Error(ctx, "list reports failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrap(err, "list reports")
			}
			return printReports(cmd, items)
		default:
			return fmt.Errorf("set --job or --employer")
		}
	}),
}

func printReports(cmd *cobra.Command, items []ports.JobReport) error {
	if len(items) == 0 {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no reports"); err != nil {
			return errs.Wrap(err, "write report list output")
		}
		return nil
	}
	for _, item := range items {
		resolvedAt := "-"
		if item.ResolvedAt != nil {
			resolvedAt = *item.ResolvedAt
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "report: id=%s job=%s type=%s status=%s created=%s resolved=%s\n",
			item.ReportID, item.JobID, item.Type, item.Status, item.CreatedAt, resolvedAt); err != nil {
			return errs.Wrap(err, "write report list output")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(reportSubmitCmd)
	reportCmd.AddCommand(reportResolveCmd)
	reportCmd.AddCommand(reportListCmd)

	reportSubmitCmd.Flags().String("job", "", "Job id")
	reportSubmitCmd.Flags().String("reporter", "", "Reporter id")
	reportSubmitCmd.Flags().String("type", "", "Report type: SCAM, SPAM, FAKE_COMPANY, MISLEADING, DISCRIMINATION, OTHER")
	reportSubmitCmd.Flags().String("severity", "", "Severity override: LOW, MEDIUM, HIGH, CRITICAL")
	reportSubmitCmd.Flags().String("description", "", "What happened")
	reportSubmitCmd.Flags().StringSlice("evidence", nil, "Evidence URLs")
	_ = reportSubmitCmd.MarkFlagRequired("job")
	_ = reportSubmitCmd.MarkFlagRequired("type")

	reportResolveCmd.Flags().String("report", "", "Report id")
	reportResolveCmd.Flags().String("status", "", "Terminal status: VERIFIED, DISMISSED, RESOLVED")
	reportResolveCmd.Flags().String("by", "", "Moderator id recorded with the verdict")
	reportResolveCmd.Flags().String("resolution", "", "Resolution note")
	_ = reportResolveCmd.MarkFlagRequired("report")
	_ = reportResolveCmd.MarkFlagRequired("status")

	reportListCmd.Flags().String("job", "", "Job id")
	reportListCmd.Flags().String("employer", "", "Employer id")
}
