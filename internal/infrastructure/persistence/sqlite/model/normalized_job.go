package model

// NormalizedJob is the derived row for one posting. Structured sub-results
// (skills, signals, indicators) are JSON stored as TEXT; the fields that
// drive queries are real columns.
type NormalizedJob struct {
	JobID             string  `gorm:"column:job_id;primaryKey"`
	StandardizedTitle string  `gorm:"column:standardized_title;type:text;not null;index"`
	Seniority         string  `gorm:"column:seniority;type:text"`
	Category          string  `gorm:"column:category;type:text;index"`
	RoleFamily        string  `gorm:"column:role_family;type:text"`
	TitleConfidence   float64 `gorm:"column:title_confidence;not null"`

	SkillsJSON string `gorm:"column:skills_json;type:text;not null"`

	TitleHash       string `gorm:"column:title_hash;type:text;not null"`
	CompanyHash     string `gorm:"column:company_hash;type:text;not null"`
	LocationHash    string `gorm:"column:location_hash;type:text;not null"`
	DescriptionHash string `gorm:"column:description_hash;type:text;not null"`
	ContentHash     string `gorm:"column:content_hash;type:text;not null;index"`

	IsDuplicate          bool     `gorm:"column:is_duplicate;not null;default:0"`
	DuplicateOf          string   `gorm:"column:duplicate_of;type:text"`
	DuplicateScore       *float64 `gorm:"column:duplicate_score"`
	DuplicateReasonsJSON string   `gorm:"column:duplicate_reasons_json;type:text;not null"`

	QualityScore       float64 `gorm:"column:quality_score;not null"`
	QualitySignalsJSON string  `gorm:"column:quality_signals_json;type:text;not null"`
	FreshnessScore     float64 `gorm:"column:freshness_score;not null"`
	AgeDays            int     `gorm:"column:age_days;not null"`

	ScamScore           float64 `gorm:"column:scam_score;not null;index"`
	IsScam              bool    `gorm:"column:is_scam;not null;default:0"`
	FraudSignalsJSON    string  `gorm:"column:fraud_signals_json;type:text;not null"`
	FraudIndicatorsJSON string  `gorm:"column:fraud_indicators_json;type:text;not null"`
	RiskLevel           string  `gorm:"column:risk_level;type:text;not null"`

	CountryCode       string `gorm:"column:country_code;type:text"`
	Remote            bool   `gorm:"column:remote;not null;default:0"`
	RelocationSupport bool   `gorm:"column:relocation_support;not null;default:0"`
	VisaSupport       bool   `gorm:"column:visa_support;not null;default:0"`

	CompMinUSD    *float64 `gorm:"column:comp_min_usd"`
	CompMaxUSD    *float64 `gorm:"column:comp_max_usd"`
	CompMedianUSD *float64 `gorm:"column:comp_median_usd"`
	CompPeriod    string   `gorm:"column:comp_period;type:text"`

	ApplicationComplexity string `gorm:"column:application_complexity;type:text"`
	ApplyMinutes          int    `gorm:"column:apply_minutes;not null;default:0"`

	OverallConfidence float64 `gorm:"column:overall_confidence;not null"`

	VersionsJSON string `gorm:"column:versions_json;type:text;not null"`
	SourceHash   string `gorm:"column:source_hash;type:text;not null"`
	NormalizedAt string `gorm:"column:normalized_at;type:text;not null"`
}

func (NormalizedJob) TableName() string {
	return "normalized_jobs"
}
