package normalization

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

type NormalizeJobInput struct {
	JobID string
	// Force recomputes even when the stored row already matches the
	// current raw content and rule versions.
	Force bool
}

// NormalizeJob runs the full pipeline for one posting and upserts the
// derived row. The operation is idempotent: when the raw posting and rule
// tables are unchanged, the stored result is returned as-is.
func (s *Service) NormalizeJob(ctx context.Context, input NormalizeJobInput) (ports.NormalizedJob, error) {
	if ctx == nil {
		return ports.NormalizedJob{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.NormalizedJob{}, errs.Wrap(err, "check context")
	}
	if s.jobs == nil || s.normalized == nil || s.taxonomy == nil {
		return ports.NormalizedJob{}, errors.New("repositories are required")
	}
	if s.uow == nil {
		return ports.NormalizedJob{}, errors.New("unit of work is required")
	}

	job, err := s.jobs.GetJob(ctx, input.JobID)
	if err != nil {
		return ports.NormalizedJob{}, err
	}

	sourceHash := sourceHashOf(job)
	if !input.Force {
		existing, err := s.normalized.GetByJobID(ctx, input.JobID)
		if err == nil && existing.SourceHash == sourceHash && existing.Versions == currentRuleVersions() {
			logging.Info(ctx, "normalization skipped, stored row is current",
				slog.String("job_id", job.JobID))
			return existing, nil
		}
		if err != nil && !errs.IsNotFound(err) {
			return ports.NormalizedJob{}, err
		}
	}

	row, err := s.runPipeline(ctx, job)
	if err != nil {
		return ports.NormalizedJob{}, err
	}
	row.SourceHash = sourceHash

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.normalized.Upsert(txCtx, row); err != nil {
			return err
		}
		return s.recordObservations(txCtx, job, row)
	}); err != nil {
		return ports.NormalizedJob{}, err
	}

	logging.Info(ctx, "job normalized",
		slog.String("job_id", job.JobID),
		slog.String("title", row.Title.StandardizedTitle),
		slog.Float64("quality", row.Quality.Score),
		slog.Float64("scam_score", row.Fraud.ScamScore),
		slog.Bool("duplicate", row.Duplicate.IsDuplicate))
	return row, nil
}

// runPipeline computes every derived field for one raw posting. It performs
// reads only; all writes happen in the caller's transaction.
func (s *Service) runPipeline(ctx context.Context, job ports.RawJob) (ports.NormalizedJob, error) {
	pol := s.activePolicy()

	title := trust.NormalizeTitle(job.Title, func(candidate string) bool {
		ok, err := s.taxonomy.IsCanonical(ctx, ports.TaxonomyKindTitle, candidate)
		return err == nil && ok
	})
	// A previously learned or seeded mapping wins over the rule tables;
	// seniority and category still come from the rules.
	if entry, found, err := s.taxonomy.Lookup(ctx, ports.TaxonomyKindTitle, job.Title); err == nil && found && entry.Canonical != "" {
		title.StandardizedTitle = entry.Canonical
	}

	skills := trust.ExtractSkills(job.Description, job.Requirements, job.Benefits, func(raw string) (string, bool) {
		entry, found, err := s.taxonomy.Lookup(ctx, ports.TaxonomyKindSkill, raw)
		if err != nil || !found {
			return "", false
		}
		return entry.Canonical, true
	})

	fingerprint := trust.ComputeFingerprint(jobContentOf(job))
	location := trust.NormalizeLocation(job.Location, job.Description)
	compensation := trust.NormalizeCompensation(job.SalaryMin, job.SalaryMax, job.SalaryCurrency, job.SalaryPeriod)
	complexity, applyMinutes := trust.ClassifyApplication(job.Description, job.Requirements)

	skillCount := len(skills.Technical) + len(skills.Soft) + len(skills.Domain) + len(skills.Certifications)
	quality := trust.ScoreQuality(trust.QualityInput{
		Description:    job.Description,
		Requirements:   job.Requirements,
		Benefits:       job.Benefits,
		CompanyID:      job.CompanyID,
		CompanyName:    job.CompanyName,
		CompanyLogoURL: job.CompanyLogoURL,
		HasSalary:      job.SalaryMin != nil || job.SalaryMax != nil,
		PostedAt:       parseTimestamp(job.PostedAt),
		SkillCount:     skillCount,
	}, s.nowUTC())

	employer, err := s.employerSnapshot(ctx, job.CompanyID)
	if err != nil {
		return ports.NormalizedJob{}, err
	}
	fraud := trust.DetectFraud(trust.FraudInput{
		Description:     job.Description,
		Requirements:    job.Requirements,
		CompanyID:       job.CompanyID,
		CompanyName:     job.CompanyName,
		CompanyLogoURL:  job.CompanyLogoURL,
		ApplicationURL:  job.ApplicationURL,
		ApplyEmail:      job.ApplyEmail,
		SalaryMin:       job.SalaryMin,
		SalaryMax:       job.SalaryMax,
		ExperienceLevel: job.ExperienceLevel,
	}, employer, pol, s.cfg.ScamThreshold)

	duplicate, err := s.detectDuplicate(ctx, job, fingerprint)
	if err != nil {
		return ports.NormalizedJob{}, err
	}

	confidence := math.Round(title.Confidence*0.25 + skills.Confidence*0.25 +
		quality.Score*0.30 + (100-fraud.ScamScore)*0.20)

	return ports.NormalizedJob{
		JobID:             job.JobID,
		Title:             title,
		Skills:            skills,
		Fingerprint:       fingerprint,
		Duplicate:         duplicate,
		Quality:           quality,
		Fraud:             fraud,
		Location:          location,
		Compensation:      compensation,
		Application:       complexity,
		ApplyMinutes:      applyMinutes,
		OverallConfidence: confidence,
		Versions:          currentRuleVersions(),
		NormalizedAt:      s.nowUTCString(),
	}, nil
}

// employerSnapshot loads the credibility view the fraud detector consumes.
// A missing profile is not an error; the employer signal just stays silent.
func (s *Service) employerSnapshot(ctx context.Context, companyID string) (*trust.EmployerSnapshot, error) {
	if companyID == "" || s.employers == nil {
		return nil, nil
	}

	profile, err := s.employers.GetEmployer(ctx, companyID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &trust.EmployerSnapshot{
		CredibilityScore: profile.CredibilityScore,
		ScamReports:      profile.Facts.ScamReportsCount,
		VerifiedScams:    profile.Facts.VerifiedScamCount,
		Blacklisted:      profile.Status == trust.VerificationBlacklisted,
	}, nil
}

func (s *Service) detectDuplicate(ctx context.Context, job ports.RawJob, fingerprint trust.Fingerprint) (ports.DuplicateInfo, error) {
	content := jobContentOf(job)

	// Exact content match first; the earliest normalized posting stays
	// canonical.
	matchID, err := s.normalized.FindJobIDByContentHash(ctx, fingerprint.ContentHash, job.JobID)
	if err != nil {
		return ports.DuplicateInfo{}, err
	}
	if matchID != "" {
		info := ports.DuplicateInfo{IsDuplicate: true, DuplicateOf: matchID, Score: 100}
		if original, err := s.jobs.GetJob(ctx, matchID); err == nil {
			info.Reasons = trust.DuplicateReasons(content, jobContentOf(original),
				job.ExternalID, job.Source, original.ExternalID, original.Source, 1)
		} else if !errs.IsNotFound(err) {
			return ports.DuplicateInfo{}, err
		} else {
			info.Reasons = []string{"Nearly identical posting"}
		}
		return info, nil
	}

	// The candidate window is anchored on the target's posting time, not
	// on the wall clock, so re-normalizing an older posting still scans
	// its own neighborhood.
	anchor := s.nowUTC()
	if ts := parseTimestamp(job.PostedAt); ts != nil {
		anchor = *ts
	} else if ts := parseTimestamp(&job.CreatedAt); ts != nil {
		anchor = *ts
	}
	candidates, err := s.jobs.ListDuplicateCandidates(ctx, ports.DuplicateCandidateQuery{
		CompanyID:    job.CompanyID,
		CompanyName:  job.CompanyName,
		ExcludeJobID: job.JobID,
		PostedFrom:   anchor.AddDate(0, 0, -s.cfg.DuplicateWindowDays).Format(time.RFC3339Nano),
		PostedUntil:  anchor.AddDate(0, 0, s.cfg.DuplicateWindowDays).Format(time.RFC3339Nano),
		Limit:        s.cfg.DuplicateCandidates,
	})
	if err != nil {
		return ports.DuplicateInfo{}, err
	}

	var best ports.RawJob
	bestScore := 0.0
	for _, candidate := range candidates {
		if trust.TrigramSimilarity(job.Title, candidate.Title) < s.cfg.TitleSimilarityFloor {
			continue
		}
		if score := trust.CompareJobs(content, jobContentOf(candidate)); score > bestScore {
			best, bestScore = candidate, score
		}
	}

	if bestScore < s.cfg.DuplicateThreshold {
		return ports.DuplicateInfo{}, nil
	}
	return ports.DuplicateInfo{
		IsDuplicate: true,
		DuplicateOf: best.JobID,
		// Thresholds and reasons work on the 0-1 fraction; the stored
		// score uses the 0-100 scale.
		Score: bestScore * 100,
		Reasons: trust.DuplicateReasons(content, jobContentOf(best),
			job.ExternalID, job.Source, best.ExternalID, best.Source, bestScore),
	}, nil
}

// recordObservations feeds the taxonomy store from one normalized posting.
func (s *Service) recordObservations(ctx context.Context, job ports.RawJob, row ports.NormalizedJob) error {
	now := s.nowUTCString()

	if err := s.taxonomy.RecordObservation(ctx, ports.TaxonomyKindTitle,
		job.Title, row.Title.StandardizedTitle, now); err != nil {
		return err
	}
	for _, skill := range row.Skills.Technical {
		if err := s.taxonomy.RecordObservation(ctx, ports.TaxonomyKindSkill, skill, skill, now); err != nil {
			return err
		}
	}
	for _, tag := range row.Skills.Domain {
		if err := s.taxonomy.RecordObservation(ctx, ports.TaxonomyKindIndustry, tag, tag, now); err != nil {
			return err
		}
	}
	return nil
}
