package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/ports"
)

type NormalizedJobRepository struct {
	db *gorm.DB
}

var _ ports.NormalizedJobRepository = (*NormalizedJobRepository)(nil)

func NewNormalizedJobRepository(db *gorm.DB) *NormalizedJobRepository {
	return &NormalizedJobRepository{db: db}
}

func (r *NormalizedJobRepository) GetByJobID(ctx context.Context, jobID string) (ports.NormalizedJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.NormalizedJob{}, err
	}

	var row model.NormalizedJob
	if err := db.Where("job_id = ?", jobID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.NormalizedJob{}, errs.NotFound(ports.ErrNormalizedJobNotFound)
		}
		return ports.NormalizedJob{}, errs.Wrap(err, "query normalized job")
	}
	return mapNormalizedJob(row)
}

func (r *NormalizedJobRepository) Upsert(ctx context.Context, job ports.NormalizedJob) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}
	if job.JobID == "" {
		return errors.New("job id is required")
	}

	row := normalizedJobToModel(job)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		UpdateAll: true,
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert normalized job")
	}
	return nil
}

func (r *NormalizedJobRepository) FindJobIDByContentHash(ctx context.Context, contentHash string, excludeJobID string) (string, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return "", err
	}
	if contentHash == "" {
		return "", nil
	}

	var row model.NormalizedJob
	query := db.Where("content_hash = ?", contentHash)
	if excludeJobID != "" {
		query = query.Where("job_id <> ?", excludeJobID)
	}
	if err := query.Order("normalized_at asc, job_id asc").Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", errs.Wrap(err, "query by content hash")
	}
	return row.JobID, nil
}

func normalizedJobToModel(job ports.NormalizedJob) model.NormalizedJob {
	return model.NormalizedJob{
		JobID:             job.JobID,
		StandardizedTitle: job.Title.StandardizedTitle,
		Seniority:         string(job.Title.Seniority),
		Category:          string(job.Title.Category),
		RoleFamily:        job.Title.RoleFamily,
		TitleConfidence:   job.Title.Confidence,

		SkillsJSON: mustMarshalJSON(job.Skills),

		TitleHash:       job.Fingerprint.TitleHash,
		CompanyHash:     job.Fingerprint.CompanyHash,
		LocationHash:    job.Fingerprint.LocationHash,
		DescriptionHash: job.Fingerprint.DescriptionHash,
		ContentHash:     job.Fingerprint.ContentHash,

		IsDuplicate:          job.Duplicate.IsDuplicate,
		DuplicateOf:          job.Duplicate.DuplicateOf,
		DuplicateScore:       duplicateScoreColumn(job.Duplicate),
		DuplicateReasonsJSON: mustMarshalJSON(emptyWhenNil(job.Duplicate.Reasons)),

		QualityScore:       job.Quality.Score,
		QualitySignalsJSON: mustMarshalJSON(job.Quality.Signals),
		FreshnessScore:     job.Quality.FreshnessScore,
		AgeDays:            job.Quality.AgeDays,

		ScamScore:           job.Fraud.ScamScore,
		IsScam:              job.Fraud.IsScam,
		FraudSignalsJSON:    mustMarshalJSON(job.Fraud.Signals),
		FraudIndicatorsJSON: mustMarshalJSON(emptyWhenNil(job.Fraud.Indicators)),
		RiskLevel:           string(job.Fraud.RiskLevel),

		CountryCode:       job.Location.CountryCode,
		Remote:            job.Location.Remote,
		RelocationSupport: job.Location.RelocationSupport,
		VisaSupport:       job.Location.VisaSupport,

		CompMinUSD:    job.Compensation.MinUSD,
		CompMaxUSD:    job.Compensation.MaxUSD,
		CompMedianUSD: job.Compensation.MedianUSD,
		CompPeriod:    job.Compensation.Period,

		ApplicationComplexity: string(job.Application),
		ApplyMinutes:          job.ApplyMinutes,

		OverallConfidence: job.OverallConfidence,

		VersionsJSON: mustMarshalJSON(job.Versions),
		SourceHash:   job.SourceHash,
		NormalizedAt: job.NormalizedAt,
	}
}

func mapNormalizedJob(row model.NormalizedJob) (ports.NormalizedJob, error) {
	job := ports.NormalizedJob{
		JobID: row.JobID,
		Title: trust.TitleResult{
			StandardizedTitle: row.StandardizedTitle,
			Seniority:         trust.Seniority(row.Seniority),
			Category:          trust.FunctionCategory(row.Category),
			RoleFamily:        row.RoleFamily,
			Confidence:        row.TitleConfidence,
		},
		Fingerprint: trust.Fingerprint{
			TitleHash:       row.TitleHash,
			CompanyHash:     row.CompanyHash,
			LocationHash:    row.LocationHash,
			DescriptionHash: row.DescriptionHash,
			ContentHash:     row.ContentHash,
		},
		Duplicate: ports.DuplicateInfo{
			IsDuplicate: row.IsDuplicate,
			DuplicateOf: row.DuplicateOf,
		},
		Quality: trust.QualityResult{
			Score:          row.QualityScore,
			FreshnessScore: row.FreshnessScore,
			AgeDays:        row.AgeDays,
		},
		Fraud: trust.FraudResult{
			ScamScore: row.ScamScore,
			IsScam:    row.IsScam,
			RiskLevel: trust.RiskLevel(row.RiskLevel),
		},
		Location: trust.LocationInfo{
			CountryCode:       row.CountryCode,
			Remote:            row.Remote,
			RelocationSupport: row.RelocationSupport,
			VisaSupport:       row.VisaSupport,
		},
		Compensation: trust.Compensation{
			MinUSD:    row.CompMinUSD,
			MaxUSD:    row.CompMaxUSD,
			MedianUSD: row.CompMedianUSD,
			Period:    row.CompPeriod,
		},
		Application:       trust.ApplicationComplexity(row.ApplicationComplexity),
		ApplyMinutes:      row.ApplyMinutes,
		OverallConfidence: row.OverallConfidence,
		SourceHash:        row.SourceHash,
		NormalizedAt:      row.NormalizedAt,
	}
	if row.DuplicateScore != nil {
		job.Duplicate.Score = *row.DuplicateScore
	}

	if err := unmarshalJSON(row.SkillsJSON, &job.Skills, "skills"); err != nil {
		return ports.NormalizedJob{}, err
	}
	if err := unmarshalJSON(row.DuplicateReasonsJSON, &job.Duplicate.Reasons, "duplicate reasons"); err != nil {
		return ports.NormalizedJob{}, err
	}
	if err := unmarshalJSON(row.QualitySignalsJSON, &job.Quality.Signals, "quality signals"); err != nil {
		return ports.NormalizedJob{}, err
	}
	if err := unmarshalJSON(row.FraudSignalsJSON, &job.Fraud.Signals, "fraud signals"); err != nil {
		return ports.NormalizedJob{}, err
	}
	if err := unmarshalJSON(row.FraudIndicatorsJSON, &job.Fraud.Indicators, "fraud indicators"); err != nil {
		return ports.NormalizedJob{}, err
	}
	if err := unmarshalJSON(row.VersionsJSON, &job.Versions, "rule versions"); err != nil {
		return ports.NormalizedJob{}, err
	}
	return job, nil
}

func duplicateScoreColumn(info ports.DuplicateInfo) *float64 {
	if !info.IsDuplicate && info.Score == 0 {
		return nil
	}
	score := info.Score
	return &score
}
