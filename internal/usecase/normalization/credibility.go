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

// ScoreEmployer recomputes an employer's credibility from its stored facts
// and persists the new assessment. An employer nobody has registered yet is
// created with neutral facts so the first scoring call always succeeds.
func (s *Service) ScoreEmployer(ctx context.Context, employerID string) (ports.EmployerProfile, error) {
	if ctx == nil {
		return ports.EmployerProfile{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.EmployerProfile{}, errs.Wrap(err, "check context")
	}
	if s.employers == nil {
		return ports.EmployerProfile{}, errors.New("employer repository is required")
	}
	if strings.TrimSpace(employerID) == "" {
		return ports.EmployerProfile{}, errors.New("employer id is required")
	}

	unlock := s.lockEmployer(employerID)
	defer unlock()

	profile, err := s.employers.GetEmployer(ctx, employerID)
	if errs.IsNotFound(err) {
		profile, err = s.employers.CreateEmployer(ctx, ports.EmployerProfile{
			EmployerID: employerID,
			CreatedAt:  s.nowUTCString(),
			UpdatedAt:  s.nowUTCString(),
		})
	}
	if err != nil {
		return ports.EmployerProfile{}, err
	}

	return s.reassess(ctx, profile)
}

// UpdateEmployerFacts replaces the stored facts and reassesses in one call.
// Report tallies and the verified flag are owned by their own operations and
// survive the replacement.
func (s *Service) UpdateEmployerFacts(ctx context.Context, employerID string, facts trust.EmployerFacts) (ports.EmployerProfile, error) {
	if ctx == nil {
		return ports.EmployerProfile{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.EmployerProfile{}, errs.Wrap(err, "check context")
	}
	if s.employers == nil {
		return ports.EmployerProfile{}, errors.New("employer repository is required")
	}

	unlock := s.lockEmployer(employerID)
	defer unlock()

	profile, err := s.employers.GetEmployer(ctx, employerID)
	if errs.IsNotFound(err) {
		profile, err = s.employers.CreateEmployer(ctx, ports.EmployerProfile{
			EmployerID: employerID,
			CreatedAt:  s.nowUTCString(),
			UpdatedAt:  s.nowUTCString(),
		})
	}
	if err != nil {
		return ports.EmployerProfile{}, err
	}

	facts.ScamReportsCount = profile.Facts.ScamReportsCount
	facts.VerifiedScamCount = profile.Facts.VerifiedScamCount
	facts.FakeJobReports = profile.Facts.FakeJobReports
	facts.IsVerifiedEmployer = profile.Facts.IsVerifiedEmployer
	if err := s.employers.UpdateFacts(ctx, employerID, facts, s.nowUTCString()); err != nil {
		return ports.EmployerProfile{}, err
	}
	profile.Facts = facts

	return s.reassess(ctx, profile)
}

// VerifyEmployer records an admin verification decision, keeping the verifier
// identity and notes alongside the flag, and reassesses credibility.
func (s *Service) VerifyEmployer(ctx context.Context, employerID string, verified bool, verifiedBy string, notes string) (ports.EmployerProfile, error) {
	if ctx == nil {
		return ports.EmployerProfile{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.EmployerProfile{}, errs.Wrap(err, "check context")
	}
	if s.employers == nil {
		return ports.EmployerProfile{}, errors.New("employer repository is required")
	}

	unlock := s.lockEmployer(employerID)
	defer unlock()

	if err := s.employers.SetVerified(ctx, employerID, verified, verifiedBy, notes, s.nowUTCString()); err != nil {
		return ports.EmployerProfile{}, err
	}
	profile, err := s.employers.GetEmployer(ctx, employerID)
	if err != nil {
		return ports.EmployerProfile{}, err
	}

	return s.reassess(ctx, profile)
}

// reassess runs the scoring engine over the profile's current facts and
// stores the outcome. Callers hold the per-employer lock.
func (s *Service) reassess(ctx context.Context, profile ports.EmployerProfile) (ports.EmployerProfile, error) {
	result := trust.ScoreEmployer(profile.Facts)

	now := s.nowUTCString()
	if err := s.employers.UpdateAssessment(ctx, profile.EmployerID,
		result.Score, result.Breakdown, result.Status, result.Risk, now); err != nil {
		return ports.EmployerProfile{}, err
	}

	profile.CredibilityScore = result.Score
	profile.Breakdown = result.Breakdown
	profile.Status = result.Status
	profile.Risk = result.Risk
	profile.UpdatedAt = now

	logging.Info(ctx, "employer reassessed",
		slog.String("employer_id", profile.EmployerID),
		slog.Float64("score", result.Score),
		slog.String("status", string(result.Status)),
		slog.String("risk", string(result.Risk)))
	return profile, nil
}
