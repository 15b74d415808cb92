package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/ports"
)

type JobRepository struct {
	db *gorm.DB
}

var _ ports.JobRepository = (*JobRepository)(nil)

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) GetJob(ctx context.Context, jobID string) (ports.RawJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.RawJob{}, err
	}

	var row model.RawJob
	if err := db.Where("job_id = ?", jobID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.RawJob{}, errs.NotFound(ports.ErrJobNotFound)
		}
		return ports.RawJob{}, errs.Wrap(err, "query job by id")
	}
	return mapRawJob(row)
}

func (r *JobRepository) ListJobs(ctx context.Context, limit int, offset int) ([]ports.RawJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.RawJob{}).Order("created_at desc, job_id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []model.RawJob
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query jobs")
	}

	jobs := make([]ports.RawJob, 0, len(rows))
	for _, row := range rows {
		job, err := mapRawJob(row)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *JobRepository) ListDuplicateCandidates(ctx context.Context, query ports.DuplicateCandidateQuery) ([]ports.RawJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	q := db.Model(&model.RawJob{})
	switch {
	case strings.TrimSpace(query.CompanyID) != "":
		q = q.Where("company_id = ?", query.CompanyID)
	case strings.TrimSpace(query.CompanyName) != "":
		q = q.Where("company_name = ?", query.CompanyName)
	default:
		return nil, nil
	}
	q = q.Where("is_active = ?", true)
	if query.ExcludeJobID != "" {
		q = q.Where("job_id <> ?", query.ExcludeJobID)
	}
	if query.PostedFrom != "" {
		q = q.Where("COALESCE(posted_at, created_at) >= ?", query.PostedFrom)
	}
	if query.PostedUntil != "" {
		q = q.Where("COALESCE(posted_at, created_at) <= ?", query.PostedUntil)
	}
	q = q.Order("COALESCE(posted_at, created_at) desc, job_id desc")
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}

	var rows []model.RawJob
	if err := q.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query duplicate candidates")
	}

	jobs := make([]ports.RawJob, 0, len(rows))
	for _, row := range rows {
		job, err := mapRawJob(row)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *JobRepository) UpsertJob(ctx context.Context, job ports.RawJob) (ports.RawJob, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.RawJob{}, err
	}
	if err := ctx.Err(); err != nil {
		return ports.RawJob{}, errs.Wrap(err, "check context")
	}

	if strings.TrimSpace(job.Title) == "" {
		return ports.RawJob{}, errors.New("job title is required")
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	row, err := rawJobToModel(job)
	if err != nil {
		return ports.RawJob{}, err
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "company_id", "company_name", "company_logo_url", "location",
			"description", "requirements_json", "benefits_json",
			"salary_min", "salary_max", "salary_currency", "salary_period",
			"experience_level", "application_url", "apply_email", "is_active",
			"posted_at", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return ports.RawJob{}, errs.Wrap(err, "upsert job")
	}

	// Re-read so the caller sees the surviving job_id after a conflict.
	var stored model.RawJob
	if err := db.Where("source = ? AND external_id = ?", job.Source, job.ExternalID).Take(&stored).Error; err != nil {
		return ports.RawJob{}, errs.Wrap(err, "reload upserted job")
	}
	return mapRawJob(stored)
}

func rawJobToModel(job ports.RawJob) (model.RawJob, error) {
	requirements, err := marshalJSON(emptyWhenNil(job.Requirements), "job requirements")
	if err != nil {
		return model.RawJob{}, err
	}
	benefits, err := marshalJSON(emptyWhenNil(job.Benefits), "job benefits")
	if err != nil {
		return model.RawJob{}, err
	}

	return model.RawJob{
		JobID:            job.JobID,
		Source:           job.Source,
		ExternalID:       job.ExternalID,
		Title:            job.Title,
		CompanyID:        job.CompanyID,
		CompanyName:      job.CompanyName,
		CompanyLogoURL:   job.CompanyLogoURL,
		Location:         job.Location,
		Description:      job.Description,
		RequirementsJSON: requirements,
		BenefitsJSON:     benefits,
		SalaryMin:        job.SalaryMin,
		SalaryMax:        job.SalaryMax,
		SalaryCurrency:   job.SalaryCurrency,
		SalaryPeriod:     job.SalaryPeriod,
		ExperienceLevel:  job.ExperienceLevel,
		ApplicationURL:   job.ApplicationURL,
		ApplyEmail:       job.ApplyEmail,
		IsActive:         job.IsActive,
		PostedAt:         job.PostedAt,
		CreatedAt:        job.CreatedAt,
		UpdatedAt:        job.UpdatedAt,
	}, nil
}

func mapRawJob(row model.RawJob) (ports.RawJob, error) {
	var requirements, benefits []string
	if err := unmarshalJSON(row.RequirementsJSON, &requirements, "job requirements"); err != nil {
		return ports.RawJob{}, err
	}
	if err := unmarshalJSON(row.BenefitsJSON, &benefits, "job benefits"); err != nil {
		return ports.RawJob{}, err
	}

	return ports.RawJob{
		JobID:           row.JobID,
		Source:          row.Source,
		ExternalID:      row.ExternalID,
		Title:           row.Title,
		CompanyID:       row.CompanyID,
		CompanyName:     row.CompanyName,
		CompanyLogoURL:  row.CompanyLogoURL,
		Location:        row.Location,
		Description:     row.Description,
		Requirements:    requirements,
		Benefits:        benefits,
		SalaryMin:       row.SalaryMin,
		SalaryMax:       row.SalaryMax,
		SalaryCurrency:  row.SalaryCurrency,
		SalaryPeriod:    row.SalaryPeriod,
		ExperienceLevel: row.ExperienceLevel,
		ApplicationURL:  row.ApplicationURL,
		ApplyEmail:      row.ApplyEmail,
		IsActive:        row.IsActive,
		PostedAt:        row.PostedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}

func emptyWhenNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
