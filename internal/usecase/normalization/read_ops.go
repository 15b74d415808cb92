package normalization

import (
	"context"
	"errors"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

func (s *Service) GetJob(ctx context.Context, jobID string) (ports.RawJob, error) {
	if ctx == nil {
		return ports.RawJob{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.RawJob{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil {
		return ports.RawJob{}, errors.New("job repository is required")
	}
	return s.jobs.GetJob(ctx, jobID)
}

func (s *Service) GetNormalizedJob(ctx context.Context, jobID string) (ports.NormalizedJob, error) {
	if ctx == nil {
		return ports.NormalizedJob{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.NormalizedJob{}, errs.Wrap(err, "check context")
	}
	if s.normalized == nil {
		return ports.NormalizedJob{}, errors.New("normalized job repository is required")
	}
	return s.normalized.GetByJobID(ctx, jobID)
}

func (s *Service) GetEmployer(ctx context.Context, employerID string) (ports.EmployerProfile, error) {
	if ctx == nil {
		return ports.EmployerProfile{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.EmployerProfile{}, errs.Wrap(err, "check context")
	}
	if s.employers == nil {
		return ports.EmployerProfile{}, errors.New("employer repository is required")
	}
	return s.employers.GetEmployer(ctx, employerID)
}

func (s *Service) ListReportsForJob(ctx context.Context, jobID string) ([]ports.JobReport, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.reports == nil {
		return nil, errors.New("report repository is required")
	}
	return s.reports.ListReportsForJob(ctx, jobID)
}

func (s *Service) ListReportsForEmployer(ctx context.Context, employerID string) ([]ports.JobReport, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.reports == nil {
		return nil, errors.New("report repository is required")
	}
	return s.reports.ListReportsForEmployer(ctx, employerID)
}

// QualitySnapshot returns the stored quality view of a posting. A posting
// that has never been normalized yields a zero snapshot, not an error.
func (s *Service) QualitySnapshot(ctx context.Context, jobID string) (trust.QualityResult, bool, error) {
	row, err := s.GetNormalizedJob(ctx, jobID)
	if err != nil {
		if errs.IsNotFound(err) {
			return trust.QualityResult{}, false, nil
		}
		return trust.QualityResult{}, false, err
	}
	return row.Quality, true, nil
}

// CredibilitySnapshot returns the stored assessment of an employer. An
// unknown employer yields a zero snapshot, not an error.
func (s *Service) CredibilitySnapshot(ctx context.Context, employerID string) (trust.CredibilityResult, bool, error) {
	profile, err := s.GetEmployer(ctx, employerID)
	if err != nil {
		if errs.IsNotFound(err) {
			return trust.CredibilityResult{}, false, nil
		}
		return trust.CredibilityResult{}, false, err
	}
	return trust.CredibilityResult{
		Score:     profile.CredibilityScore,
		Breakdown: profile.Breakdown,
		Status:    profile.Status,
		Risk:      profile.Risk,
	}, true, nil
}

// SeedTaxonomy loads curated canonical entries, typically at install time.
func (s *Service) SeedTaxonomy(ctx context.Context, entries []ports.TaxonomyEntry) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.taxonomy == nil {
		return errors.New("taxonomy repository is required")
	}
	return s.taxonomy.SeedEntries(ctx, entries)
}

// ListTaxonomy exposes the learned vocabulary for inspection.
func (s *Service) ListTaxonomy(ctx context.Context, kind string, limit int) ([]ports.TaxonomyEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.taxonomy == nil {
		return nil, errors.New("taxonomy repository is required")
	}
	return s.taxonomy.ListEntries(ctx, kind, limit)
}
