package normalization

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

type ImportJobInput struct {
	Source          string
	ExternalID      string
	Title           string
	CompanyID       string
	CompanyName     string
	CompanyLogoURL  string
	Location        string
	Description     string
	Requirements    []string
	Benefits        []string
	SalaryMin       *float64
	SalaryMax       *float64
	SalaryCurrency  string
	SalaryPeriod    string
	ExperienceLevel string
	ApplicationURL  string
	ApplyEmail      string
	// IsActive defaults to true when nil; the ingestion side owns the
	// lifecycle flag.
	IsActive *bool
	PostedAt *string
}

// ImportJob stores a raw posting. Re-importing the same (source, external_id)
// refreshes the stored row instead of creating a second one.
func (s *Service) ImportJob(ctx context.Context, input ImportJobInput) (ports.RawJob, error) {
	if ctx == nil {
		return ports.RawJob{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.RawJob{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil {
		return ports.RawJob{}, errors.New("job repository is required")
	}

	if strings.TrimSpace(input.Source) == "" {
		return ports.RawJob{}, errors.New("source is required")
	}
	if strings.TrimSpace(input.ExternalID) == "" {
		return ports.RawJob{}, errors.New("external id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return ports.RawJob{}, errors.New("title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return ports.RawJob{}, errors.New("description is required")
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	now := s.nowUTCString()
	job, err := s.jobs.UpsertJob(ctx, ports.RawJob{
		Source:          strings.TrimSpace(input.Source),
		ExternalID:      strings.TrimSpace(input.ExternalID),
		Title:           strings.TrimSpace(input.Title),
		CompanyID:       strings.TrimSpace(input.CompanyID),
		CompanyName:     strings.TrimSpace(input.CompanyName),
		CompanyLogoURL:  strings.TrimSpace(input.CompanyLogoURL),
		Location:        strings.TrimSpace(input.Location),
		Description:     input.Description,
		Requirements:    input.Requirements,
		Benefits:        input.Benefits,
		SalaryMin:       input.SalaryMin,
		SalaryMax:       input.SalaryMax,
		SalaryCurrency:  strings.TrimSpace(input.SalaryCurrency),
		SalaryPeriod:    strings.TrimSpace(input.SalaryPeriod),
		ExperienceLevel: strings.TrimSpace(input.ExperienceLevel),
		ApplicationURL:  strings.TrimSpace(input.ApplicationURL),
		ApplyEmail:      strings.TrimSpace(input.ApplyEmail),
		IsActive:        active,
		PostedAt:        input.PostedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return ports.RawJob{}, err
	}

	logging.Info(ctx, "job imported",
		slog.String("job_id", job.JobID),
		slog.String("source", job.Source),
		slog.String("external_id", job.ExternalID))
	return job, nil
}
