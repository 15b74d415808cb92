package model

type JobReport struct {
	ReportID     string  `gorm:"column:report_id;primaryKey"`
	JobID        string  `gorm:"column:job_id;type:text;not null;index"`
	EmployerID   string  `gorm:"column:employer_id;type:text;not null;index"`
	ReporterID   string  `gorm:"column:reporter_id;type:text;not null"`
	ReportType   string  `gorm:"column:report_type;type:text;not null"`
	Severity     string  `gorm:"column:severity;type:text;not null"`
	Status       string  `gorm:"column:status;type:text;not null;index"`
	Description  string  `gorm:"column:description;type:text;not null"`
	EvidenceJSON string  `gorm:"column:evidence_json;type:text;not null"`
	ResolvedBy   string  `gorm:"column:resolved_by;type:text"`
	Resolution   string  `gorm:"column:resolution;type:text"`
	CreatedAt    string  `gorm:"column:created_at;type:text;not null"`
	ResolvedAt   *string `gorm:"column:resolved_at;type:text"`
}

func (JobReport) TableName() string {
	return "job_reports"
}
