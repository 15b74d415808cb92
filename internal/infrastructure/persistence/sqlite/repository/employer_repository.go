package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/ports"
)

type EmployerRepository struct {
	db *gorm.DB
}

var _ ports.EmployerRepository = (*EmployerRepository)(nil)

func NewEmployerRepository(db *gorm.DB) *EmployerRepository {
	return &EmployerRepository{db: db}
}

func (r *EmployerRepository) GetEmployer(ctx context.Context, employerID string) (ports.EmployerProfile, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.EmployerProfile{}, err
	}

	var row model.EmployerProfile
	if err := db.Where("employer_id = ?", employerID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.EmployerProfile{}, errs.NotFound(ports.ErrEmployerNotFound)
		}
		return ports.EmployerProfile{}, errs.Wrap(err, "query employer")
	}
	return mapEmployerProfile(row)
}

func (r *EmployerRepository) CreateEmployer(ctx context.Context, profile ports.EmployerProfile) (ports.EmployerProfile, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.EmployerProfile{}, err
	}
	if profile.EmployerID == "" {
		profile.EmployerID = uuid.NewString()
	}

	row := employerProfileToModel(profile)
	if err := db.Create(&row).Error; err != nil {
		return ports.EmployerProfile{}, errs.Wrap(err, "create employer")
	}
	return profile, nil
}

func (r *EmployerRepository) UpdateAssessment(ctx context.Context, employerID string, score float64,
	breakdown trust.CredibilityBreakdown, status trust.VerificationStatus,
	risk trust.RiskLevel, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.EmployerProfile{}).
		Where("employer_id = ?", employerID).
		Updates(map[string]any{
			"credibility_score": score,
			"breakdown_json":    mustMarshalJSON(breakdown),
			"status":            string(status),
			"risk":              string(risk),
			"updated_at":        updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update employer assessment")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(ports.ErrEmployerNotFound)
	}
	return nil
}

func (r *EmployerRepository) ApplyReportCounters(ctx context.Context, employerID string, counters ports.ReportCounters, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.EmployerProfile{}).
		Where("employer_id = ?", employerID).
		Updates(map[string]any{
			"scam_reports_count":  gorm.Expr("scam_reports_count + ?", counters.ScamReports),
			"verified_scam_count": gorm.Expr("verified_scam_count + ?", counters.VerifiedScams),
			"fake_job_reports":    gorm.Expr("fake_job_reports + ?", counters.FakeJobs),
			"updated_at":          updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "apply report counters")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(ports.ErrEmployerNotFound)
	}
	return nil
}

func (r *EmployerRepository) SetVerified(ctx context.Context, employerID string, verified bool, verifiedBy string, notes string, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.EmployerProfile{}).
		Where("employer_id = ?", employerID).
		Updates(map[string]any{
			"is_verified_employer": verified,
			"verified_by":          verifiedBy,
			"verification_notes":   notes,
			"updated_at":           updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "set employer verified")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(ports.ErrEmployerNotFound)
	}
	return nil
}

func (r *EmployerRepository) UpdateFacts(ctx context.Context, employerID string, facts trust.EmployerFacts, updatedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.EmployerProfile{}).
		Where("employer_id = ?", employerID).
		Updates(map[string]any{
			"facts_json": mustMarshalJSON(facts),
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return errs.Wrap(result.Error, "update employer facts")
	}
	if result.RowsAffected == 0 {
		return errs.NotFound(ports.ErrEmployerNotFound)
	}
	return nil
}

func employerProfileToModel(profile ports.EmployerProfile) model.EmployerProfile {
	return model.EmployerProfile{
		EmployerID:         profile.EmployerID,
		Name:               profile.Name,
		FactsJSON:          mustMarshalJSON(profile.Facts),
		ScamReportsCount:   profile.Facts.ScamReportsCount,
		VerifiedScamCount:  profile.Facts.VerifiedScamCount,
		FakeJobReports:     profile.Facts.FakeJobReports,
		IsVerifiedEmployer: profile.Facts.IsVerifiedEmployer,
		VerifiedBy:         profile.VerifiedBy,
		VerificationNotes:  profile.VerificationNotes,
		CredibilityScore:   profile.CredibilityScore,
		BreakdownJSON:      mustMarshalJSON(profile.Breakdown),
		Status:             string(profile.Status),
		Risk:               string(profile.Risk),
		CreatedAt:          profile.CreatedAt,
		UpdatedAt:          profile.UpdatedAt,
	}
}

func mapEmployerProfile(row model.EmployerProfile) (ports.EmployerProfile, error) {
	profile := ports.EmployerProfile{
		EmployerID:        row.EmployerID,
		Name:              row.Name,
		VerifiedBy:        row.VerifiedBy,
		VerificationNotes: row.VerificationNotes,
		CredibilityScore:  row.CredibilityScore,
		Status:            trust.VerificationStatus(row.Status),
		Risk:              trust.RiskLevel(row.Risk),
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}
	if err := unmarshalJSON(row.FactsJSON, &profile.Facts, "employer facts"); err != nil {
		return ports.EmployerProfile{}, err
	}
	if err := unmarshalJSON(row.BreakdownJSON, &profile.Breakdown, "credibility breakdown"); err != nil {
		return ports.EmployerProfile{}, err
	}

	// The incrementable columns are authoritative over the facts blob.
	profile.Facts.ScamReportsCount = row.ScamReportsCount
	profile.Facts.VerifiedScamCount = row.VerifiedScamCount
	profile.Facts.FakeJobReports = row.FakeJobReports
	profile.Facts.IsVerifiedEmployer = row.IsVerifiedEmployer

	return profile, nil
}
