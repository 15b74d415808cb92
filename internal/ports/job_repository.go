package ports

import (
	"context"
	"errors"

	"jobtrust/internal/domain/trust"
)

var (
	ErrJobNotFound           = errors.New("job not found")
	ErrNormalizedJobNotFound = errors.New("normalized job not found")
)

// RawJob is a posting as it arrived from a source board, before any
// normalization. Timestamps are RFC3339 strings; PostedAt is nil when the
// source did not carry one.
type RawJob struct {
	JobID           string
	ExternalID      string
	Source          string
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
	IsActive        bool
	PostedAt        *string
	CreatedAt       string
	UpdatedAt       string
}

// DuplicateInfo is the duplicate verdict attached to a normalized posting.
// Score is on the 0 to 100 scale; an exact content match scores 100.
type DuplicateInfo struct {
	IsDuplicate bool
	DuplicateOf string
	Score       float64
	Reasons     []string
}

// RuleVersions records which rule tables produced a normalized row.
type RuleVersions struct {
	Title      string
	Skills     string
	Similarity string
	Quality    string
	Fraud      string
}

// NormalizedJob is the full derived row for one posting. Normalization is
// idempotent: re-running it over an unchanged RawJob produces an identical
// NormalizedJob.
type NormalizedJob struct {
	JobID        string
	Title        trust.TitleResult
	Skills       trust.SkillProfile
	Fingerprint  trust.Fingerprint
	Duplicate    DuplicateInfo
	Quality      trust.QualityResult
	Fraud        trust.FraudResult
	Location     trust.LocationInfo
	Compensation trust.Compensation
	Application  trust.ApplicationComplexity
	ApplyMinutes int

	// OverallConfidence aggregates the per-stage confidences into one
	// trust figure for the row.
	OverallConfidence float64

	Versions     RuleVersions
	SourceHash   string
	NormalizedAt string
}

// DuplicateCandidateQuery bounds the candidate scan for one posting. The
// window bounds apply to posted_at, falling back to created_at for rows
// without a posting timestamp.
type DuplicateCandidateQuery struct {
	CompanyID    string
	CompanyName  string
	ExcludeJobID string
	// PostedFrom and PostedUntil are inclusive RFC3339 window bounds.
	PostedFrom  string
	PostedUntil string
	Limit       int
}

type JobReadRepository interface {
	GetJob(ctx context.Context, jobID string) (RawJob, error)
	ListJobs(ctx context.Context, limit int, offset int) ([]RawJob, error)
	// ListDuplicateCandidates returns active postings from the same
	// employer inside the window, newest first. Inactive rows are never
	// candidates.
	ListDuplicateCandidates(ctx context.Context, query DuplicateCandidateQuery) ([]RawJob, error)
}

type JobRepository interface {
	JobReadRepository
	// UpsertJob inserts a posting or refreshes an existing row keyed by
	// (source, external_id); a second import of the same posting never
	// creates a duplicate row.
	UpsertJob(ctx context.Context, job RawJob) (RawJob, error)
}

type NormalizedJobRepository interface {
	GetByJobID(ctx context.Context, jobID string) (NormalizedJob, error)
	Upsert(ctx context.Context, row NormalizedJob) error
	// FindJobIDByContentHash returns the earliest normalized posting with
	// the given content hash, excluding jobID itself; empty when none.
	FindJobIDByContentHash(ctx context.Context, contentHash string, excludeJobID string) (string, error)
}
