package model

// RawJob is a posting exactly as imported. Requirements and benefits are
// JSON arrays stored as TEXT.
type RawJob struct {
	JobID            string   `gorm:"column:job_id;primaryKey"`
	Source           string   `gorm:"column:source;type:text;not null;uniqueIndex:idx_raw_jobs_source_external"`
	ExternalID       string   `gorm:"column:external_id;type:text;not null;uniqueIndex:idx_raw_jobs_source_external"`
	Title            string   `gorm:"column:title;type:text;not null"`
	CompanyID        string   `gorm:"column:company_id;type:text;index"`
	CompanyName      string   `gorm:"column:company_name;type:text;index"`
	CompanyLogoURL   string   `gorm:"column:company_logo_url;type:text"`
	Location         string   `gorm:"column:location;type:text"`
	Description      string   `gorm:"column:description;type:text;not null"`
	RequirementsJSON string   `gorm:"column:requirements_json;type:text;not null"`
	BenefitsJSON     string   `gorm:"column:benefits_json;type:text;not null"`
	SalaryMin        *float64 `gorm:"column:salary_min"`
	SalaryMax        *float64 `gorm:"column:salary_max"`
	SalaryCurrency   string   `gorm:"column:salary_currency;type:text"`
	SalaryPeriod     string   `gorm:"column:salary_period;type:text"`
	ExperienceLevel  string   `gorm:"column:experience_level;type:text"`
	ApplicationURL   string   `gorm:"column:application_url;type:text"`
	ApplyEmail       string   `gorm:"column:apply_email;type:text"`
	IsActive         bool     `gorm:"column:is_active;not null;default:1;index"`
	PostedAt         *string  `gorm:"column:posted_at;type:text"`
	CreatedAt        string   `gorm:"column:created_at;type:text;not null;index"`
	UpdatedAt        string   `gorm:"column:updated_at;type:text;not null"`
}

func (RawJob) TableName() string {
	return "raw_jobs"
}
