package model

// EmployerProfile stores one employer's trust state. The report counters are
// real columns so resolutions can increment them atomically; the remaining
// facts travel as a JSON TEXT blob.
type EmployerProfile struct {
	EmployerID string `gorm:"column:employer_id;primaryKey"`
	Name       string `gorm:"column:name;type:text;not null"`

	FactsJSON string `gorm:"column:facts_json;type:text;not null"`

	ScamReportsCount  int `gorm:"column:scam_reports_count;not null;default:0"`
	VerifiedScamCount int `gorm:"column:verified_scam_count;not null;default:0"`
	FakeJobReports    int `gorm:"column:fake_job_reports;not null;default:0"`

	IsVerifiedEmployer bool   `gorm:"column:is_verified_employer;not null;default:0"`
	VerifiedBy         string `gorm:"column:verified_by;type:text"`
	VerificationNotes  string `gorm:"column:verification_notes;type:text"`

	CredibilityScore float64 `gorm:"column:credibility_score;not null;index"`
	BreakdownJSON    string  `gorm:"column:breakdown_json;type:text;not null"`
	Status           string  `gorm:"column:status;type:text;not null;index"`
	Risk             string  `gorm:"column:risk;type:text;not null"`

	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	UpdatedAt string `gorm:"column:updated_at;type:text;not null"`
}

func (EmployerProfile) TableName() string {
	return "employer_profiles"
}
