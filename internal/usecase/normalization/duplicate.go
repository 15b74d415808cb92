package normalization

import (
	"context"
	"errors"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

// FindDuplicates reports whether a stored posting duplicates another one.
// It is a read-only probe; nothing is persisted.
func (s *Service) FindDuplicates(ctx context.Context, jobID string) (ports.DuplicateInfo, error) {
	if ctx == nil {
		return ports.DuplicateInfo{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.DuplicateInfo{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil || s.normalized == nil {
		return ports.DuplicateInfo{}, errors.New("repositories are required")
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return ports.DuplicateInfo{}, err
	}
	return s.detectDuplicate(ctx, job, trust.ComputeFingerprint(jobContentOf(job)))
}
