package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jobtrust/internal/bootstrap"
	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
	"jobtrust/internal/usecase/normalization"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Import and normalize job postings",
}

type importEntry struct {
	Source          string   `yaml:"source"`
	ExternalID      string   `yaml:"external_id"`
	Title           string   `yaml:"title"`
	CompanyID       string   `yaml:"company_id"`
	CompanyName     string   `yaml:"company_name"`
	CompanyLogoURL  string   `yaml:"company_logo_url"`
	Location        string   `yaml:"location"`
	Description     string   `yaml:"description"`
	Requirements    []string `yaml:"requirements"`
	Benefits        []string `yaml:"benefits"`
	SalaryMin       *float64 `yaml:"salary_min"`
	SalaryMax       *float64 `yaml:"salary_max"`
	SalaryCurrency  string   `yaml:"salary_currency"`
	SalaryPeriod    string   `yaml:"salary_period"`
	ExperienceLevel string   `yaml:"experience_level"`
	ApplicationURL  string   `yaml:"application_url"`
	ApplyEmail      string   `yaml:"apply_email"`
	IsActive        *bool    `yaml:"is_active"`
	PostedAt        *string  `yaml:"posted_at"`
}

type importDocument struct {
	Jobs []importEntry `yaml:"jobs"`
}

var jobImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import or refresh raw job postings, one from flags or many from a YAML file",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if cmd.Flags().Changed("file") {
			importFile, _ := cmd.Flags().GetString("file")
			return importFromFile(ctx, cmd, svc, importFile)
		}

		description, err := resolveDescription(cmd)
		if err != nil {
			return err
		}

		source, _ := cmd.Flags().GetString("source")
		externalID, _ := cmd.Flags().GetString("external-id")
		title, _ := cmd.Flags().GetString("title")
		companyID, _ := cmd.Flags().GetString("company-id")
		companyName, _ := cmd.Flags().GetString("company-name")
		logoURL, _ := cmd.Flags().GetString("logo-url")
		location, _ := cmd.Flags().GetString("location")
		requirements, _ := cmd.Flags().GetStringSlice("requirement")
		benefits, _ := cmd.Flags().GetStringSlice("benefit")
		currency, _ := cmd.Flags().GetString("salary-currency")
		period, _ := cmd.Flags().GetString("salary-period")
		experience, _ := cmd.Flags().GetString("experience")
		applyURL, _ := cmd.Flags().GetString("apply-url")
		applyEmail, _ := cmd.Flags().GetString("apply-email")

		input := normalization.ImportJobInput{
			Source:          source,
			ExternalID:      externalID,
			Title:           title,
			CompanyID:       companyID,
			CompanyName:     companyName,
			CompanyLogoURL:  logoURL,
			Location:        location,
			Description:     description,
			Requirements:    requirements,
			Benefits:        benefits,
			SalaryCurrency:  currency,
			SalaryPeriod:    period,
			ExperienceLevel: experience,
			ApplicationURL:  applyURL,
			ApplyEmail:      applyEmail,
		}
		if cmd.Flags().Changed("salary-min") {
			v, _ := cmd.Flags().GetFloat64("salary-min")
			input.SalaryMin = &v
		}
		if cmd.Flags().Changed("salary-max") {
			v, _ := cmd.Flags().GetFloat64("salary-max")
			input.SalaryMax = &v
		}
		if cmd.Flags().Changed("posted-at") {
			v, _ := cmd.Flags().GetString("posted-at")
			input.PostedAt = &v
		}
		if cmd.Flags().Changed("inactive") {
			inactive, _ := cmd.Flags().GetBool("inactive")
			active := !inactive
			input.IsActive = &active
		}

		job, err := svc.ImportJob(ctx, input)
		if err != nil {
			logging.Error(ctx, "import job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "import job")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported job: id=%s source=%s external=%s\n",
			job.JobID, job.Source, job.ExternalID); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

var jobNormalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Run the normalization pipeline for one posting",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		force, _ := cmd.Flags().GetBool("force")

		row, err := svc.NormalizeJob(ctx, normalization.NormalizeJobInput{JobID: jobID, Force: force})
		if err != nil {
			logging.Error(ctx, "normalize job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "normalize job")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(),
			"normalized job: id=%s title=%q seniority=%s category=%s quality=%.1f scam=%.1f confidence=%.1f duplicate=%t\n",
			row.JobID, row.Title.StandardizedTitle, row.Title.Seniority, row.Title.Category,
			row.Quality.Score, row.Fraud.ScamScore, row.OverallConfidence, row.Duplicate.IsDuplicate); err != nil {
			return errs.Wrap(err, "write normalize output")
		}
		return nil
	}),
}

var jobBatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Normalize many postings with a bounded worker pool",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobIDs, _ := cmd.Flags().GetStringSlice("job")
		force, _ := cmd.Flags().GetBool("force")
		if len(jobIDs) == 0 {
			return errors.New("at least one --job is required")
		}

		results, err := svc.NormalizeBatch(ctx, jobIDs, force)
		if err != nil {
			logging.Error(ctx, "normalize batch failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "normalize batch")
		}

		for _, result := range results {
			if result.Err != nil {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "failed: id=%s err=%v\n", result.JobID, result.Err); err != nil {
					return errs.Wrap(err, "write batch output")
				}
				continue
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "normalized: id=%s title=%q confidence=%.1f\n",
				result.JobID, result.Row.Title.StandardizedTitle, result.Row.OverallConfidence); err != nil {
				return errs.Wrap(err, "write batch output")
			}
		}
		return nil
	}),
}

var jobShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored normalization result as JSON",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		row, err := svc.GetNormalizedJob(ctx, jobID)
		if err != nil {
			logging.Error(ctx, "load normalized job failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "load normalized job")
		}

		encoded, err := json.MarshalIndent(row, "", "  ")
		if err != nil {
			return errs.Wrap(err, "encode normalized job")
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(encoded)); err != nil {
			return errs.Wrap(err, "write show output")
		}
		return nil
	}),
}

var jobDuplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Probe a stored posting for duplicates without persisting",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *normalization.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		jobID, _ := cmd.Flags().GetString("job")
		info, err := svc.FindDuplicates(ctx, jobID)
		if err != nil {
			logging.Error(ctx, "find duplicates failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "find duplicates")
		}

		if !info.IsDuplicate {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "no duplicate found: id=%s\n", jobID); err != nil {
				return errs.Wrap(err, "write duplicates output")
			}
			return nil
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "duplicate: id=%s of=%s score=%.1f reasons=%s\n",
			jobID, info.DuplicateOf, info.Score, strings.Join(info.Reasons, "; ")); err != nil {
			return errs.Wrap(err, "write duplicates output")
		}
		return nil
	}),
}

func importFromFile(ctx context.Context, cmd *cobra.Command, svc *normalization.Service, importFile string) error {
	raw, err := os.ReadFile(importFile)
	if err != nil {
		return errs.Wrapf(err, "read import file %q", importFile)
	}

	var doc importDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return errs.Wrapf(err, "decode import file %q", importFile)
	}
	if len(doc.Jobs) == 0 {
		return fmt.Errorf("import file %q contains no jobs", importFile)
	}

	imported := 0
	for index, entry := range doc.Jobs {
		job, err := svc.ImportJob(ctx, normalization.ImportJobInput{
			Source:          entry.Source,
			ExternalID:      entry.ExternalID,
			Title:           entry.Title,
			CompanyID:       entry.CompanyID,
			CompanyName:     entry.CompanyName,
			CompanyLogoURL:  entry.CompanyLogoURL,
			Location:        entry.Location,
			Description:     entry.Description,
			Requirements:    entry.Requirements,
			Benefits:        entry.Benefits,
			SalaryMin:       entry.SalaryMin,
			SalaryMax:       entry.SalaryMax,
			SalaryCurrency:  entry.SalaryCurrency,
			SalaryPeriod:    entry.SalaryPeriod,
			ExperienceLevel: entry.ExperienceLevel,
			ApplicationURL:  entry.ApplicationURL,
			ApplyEmail:      entry.ApplyEmail,
			IsActive:        entry.IsActive,
			PostedAt:        entry.PostedAt,
		})
		if err != nil {
			logging.Error(ctx, "import job failed",
				slog.Int("entry", index), slog.Any("err", errs.Loggable(err)))
			return errs.Wrapf(err, "import entry %d", index)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported job: id=%s source=%s external=%s\n",
			job.JobID, job.Source, job.ExternalID); err != nil {
			return errs.Wrap(err, "write import output")
		}
		imported++
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d jobs from %q\n", imported, importFile); err != nil {
		return errs.Wrap(err, "write import output")
	}
	return nil
}

func resolveDescription(cmd *cobra.Command) (string, error) {
	inline, _ := cmd.Flags().GetString("description")
	file, _ := cmd.Flags().GetString("description-file")

	if strings.TrimSpace(inline) != "" && strings.TrimSpace(file) != "" {
		return "", errors.New("description and description-file are mutually exclusive")
	}

	if strings.TrimSpace(file) != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", errs.Wrapf(err, "read description file %q", file)
		}
		inline = string(raw)
	}

	if strings.TrimSpace(inline) == "" {
		return "", errors.New("description is required (set --description or --description-file)")
	}
	return inline, nil
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(jobImportCmd)
	jobCmd.AddCommand(jobNormalizeCmd)
	jobCmd.AddCommand(jobBatchCmd)
	jobCmd.AddCommand(jobShowCmd)
	jobCmd.AddCommand(jobDuplicatesCmd)

	jobImportCmd.Flags().String("source", "", "Source board identifier")
	jobImportCmd.Flags().String("external-id", "", "Posting id at the source board")
	jobImportCmd.Flags().String("title", "", "Raw job title")
	jobImportCmd.Flags().String("company-id", "", "Employer identifier")
	jobImportCmd.Flags().String("company-name", "", "Employer display name")
	jobImportCmd.Flags().String("logo-url", "", "Employer logo URL")
	jobImportCmd.Flags().String("location", "", "Raw location text")
	jobImportCmd.Flags().String("description", "", "Posting description")
	jobImportCmd.Flags().String("description-file", "", "Path to posting description file")
	jobImportCmd.Flags().StringSlice("requirement", nil, "Requirement lines")
	jobImportCmd.Flags().StringSlice("benefit", nil, "Benefit lines")
	jobImportCmd.Flags().Float64("salary-min", 0, "Salary range lower bound")
	jobImportCmd.Flags().Float64("salary-max", 0, "Salary range upper bound")
	jobImportCmd.Flags().String("salary-currency", "", "Salary currency code, for example USD")
	jobImportCmd.Flags().String("salary-period", "", "Salary period, for example YEARLY")
	jobImportCmd.Flags().String("experience", "", "Advertised experience level")
	jobImportCmd.Flags().String("apply-url", "", "Application URL")
	jobImportCmd.Flags().String("apply-email", "", "Application contact email")
	jobImportCmd.Flags().String("posted-at", "", "Posting timestamp, RFC3339")
	jobImportCmd.Flags().Bool("inactive", false, "Mark the posting as no longer active")
	jobImportCmd.Flags().String("file", "", "Path to a YAML document of postings, replaces the per-posting flags")

	jobNormalizeCmd.Flags().String("job", "", "Job id")
	jobNormalizeCmd.Flags().Bool("force", false, "Recompute even when the stored row is current")
	_ = jobNormalizeCmd.MarkFlagRequired("job")

	jobBatchCmd.Flags().StringSlice("job", nil, "Job ids")
	jobBatchCmd.Flags().Bool("force", false, "Recompute even when the stored rows are current")

	jobShowCmd.Flags().String("job", "", "Job id")
	_ = jobShowCmd.MarkFlagRequired("job")

	jobDuplicatesCmd.Flags().String("job", "", "Job id")
	_ = jobDuplicatesCmd.MarkFlagRequired("job")
}
