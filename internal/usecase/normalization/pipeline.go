package normalization

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"jobtrust/internal/domain/trust"
	"jobtrust/internal/ports"
)

func currentRuleVersions() ports.RuleVersions {
	return ports.RuleVersions{
		Title:      trust.TitleRulesVersion,
		Skills:     trust.SkillsDictVersion,
		Similarity: trust.SimilarityVersion,
		Quality:    trust.QualityRulesVersion,
		Fraud:      trust.FraudHeuristicsVersion,
	}
}

// sourceContent is the slice of a raw posting that influences derived
// fields. Timestamps and bookkeeping columns are deliberately absent so
// re-imports that only touch them do not trigger recomputation.
type sourceContent struct {
	Title           string   `json:"title"`
	CompanyID       string   `json:"company_id"`
	CompanyName     string   `json:"company_name"`
	CompanyLogoURL  string   `json:"company_logo_url"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Benefits        []string `json:"benefits"`
	SalaryMin       *float64 `json:"salary_min"`
	SalaryMax       *float64 `json:"salary_max"`
	SalaryCurrency  string   `json:"salary_currency"`
	SalaryPeriod    string   `json:"salary_period"`
	ExperienceLevel string   `json:"experience_level"`
	ApplicationURL  string   `json:"application_url"`
	ApplyEmail      string   `json:"apply_email"`
	PostedAt        *string  `json:"posted_at"`
}

func sourceHashOf(job ports.RawJob) string {
	raw, err := json.Marshal(sourceContent{
		Title:           job.Title,
		CompanyID:       job.CompanyID,
		CompanyName:     job.CompanyName,
		CompanyLogoURL:  job.CompanyLogoURL,
		Location:        job.Location,
		Description:     job.Description,
		Requirements:    job.Requirements,
		Benefits:        job.Benefits,
		SalaryMin:       job.SalaryMin,
		SalaryMax:       job.SalaryMax,
		SalaryCurrency:  job.SalaryCurrency,
		SalaryPeriod:    job.SalaryPeriod,
		ExperienceLevel: job.ExperienceLevel,
		ApplicationURL:  job.ApplicationURL,
		ApplyEmail:      job.ApplyEmail,
		PostedAt:        job.PostedAt,
	})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func jobContentOf(job ports.RawJob) trust.JobContent {
	return trust.JobContent{
		Title:       job.Title,
		CompanyID:   job.CompanyID,
		CompanyName: job.CompanyName,
		Location:    job.Location,
		Description: job.Description,
		SalaryMin:   job.SalaryMin,
		SalaryMax:   job.SalaryMax,
	}
}

func parseTimestamp(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, *raw); err == nil {
			return &ts
		}
	}
	return nil
}
