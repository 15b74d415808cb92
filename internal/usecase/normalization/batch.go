package normalization

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

type BatchResult struct {
	JobID string
	Row   ports.NormalizedJob
	Err   error
}

// NormalizeBatch runs the pipeline over many postings with a bounded worker
// pool. Results keep input order and per-posting failures do not abort the
// batch.
func (s *Service) NormalizeBatch(ctx context.Context, jobIDs []string, force bool) ([]BatchResult, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if len(jobIDs) == 0 {
		return nil, nil
	}

	workers := s.cfg.BatchWorkers
	if workers < 1 {
		workers = 1
	}

	results := make([]BatchResult, len(jobIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	for i, jobID := range jobIDs {
		group.Go(func() error {
			row, err := s.NormalizeJob(groupCtx, NormalizeJobInput{JobID: jobID, Force: force})
			results[i] = BatchResult{JobID: jobID, Row: row, Err: err}
			// Per-posting errors are reported in the result slice; only a
			// cancelled context stops the batch.
			return groupCtx.Err()
		})
	}
	if err := group.Wait(); err != nil {
		return nil, errs.Wrap(err, "normalize batch")
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
		}
	}
	logging.Info(ctx, "batch normalized",
		slog.Int("total", len(jobIDs)),
		slog.Int("failed", failed))
	return results, nil
}
