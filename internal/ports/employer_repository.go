package ports

import (
	"context"
	"errors"

	"jobtrust/internal/domain/trust"
)

var ErrEmployerNotFound = errors.New("employer not found")

// EmployerProfile is the stored trust state of one employer: the raw facts
// the credibility engine reads plus the last computed assessment.
type EmployerProfile struct {
	EmployerID string
	Name       string

	Facts trust.EmployerFacts

	VerifiedBy        string
	VerificationNotes string

	CredibilityScore float64
	Breakdown        trust.CredibilityBreakdown
	Status           trust.VerificationStatus
	Risk             trust.RiskLevel

	CreatedAt string
	UpdatedAt string
}

// ReportCounters are the per-resolution increments applied to an employer
// when a report verdict lands.
type ReportCounters struct {
	ScamReports   int
	VerifiedScams int
	FakeJobs      int
}

type EmployerReadRepository interface {
	GetEmployer(ctx context.Context, employerID string) (EmployerProfile, error)
}

type EmployerRepository interface {
	EmployerReadRepository
	CreateEmployer(ctx context.Context, profile EmployerProfile) (EmployerProfile, error)
	// UpdateAssessment persists a recomputed credibility result without
	// touching the underlying facts.
	UpdateAssessment(ctx context.Context, employerID string, score float64,
		breakdown trust.CredibilityBreakdown, status trust.VerificationStatus,
		risk trust.RiskLevel, updatedAt string) error
	// ApplyReportCounters increments the report tallies atomically in the
	// database so concurrent resolutions never lose counts.
	ApplyReportCounters(ctx context.Context, employerID string, counters ReportCounters, updatedAt string) error
	// SetVerified records an admin verification decision together with the
	// verifier identity and any notes attached to the decision.
	SetVerified(ctx context.Context, employerID string, verified bool, verifiedBy string, notes string, updatedAt string) error
	UpdateFacts(ctx context.Context, employerID string, facts trust.EmployerFacts, updatedAt string) error
}
