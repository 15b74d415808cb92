package model

// TaxonomyEntry maps an observed raw term to its canonical form, keyed by
// (kind, raw_term).
type TaxonomyEntry struct {
	Kind            string `gorm:"column:kind;type:text;primaryKey"`
	RawTerm         string `gorm:"column:raw_term;type:text;primaryKey"`
	Canonical       string `gorm:"column:canonical;type:text;not null;index"`
	OccurrenceCount int64  `gorm:"column:occurrence_count;not null;default:0"`
	Verified        bool   `gorm:"column:verified;not null;default:false"`
	UpdatedAt       string `gorm:"column:updated_at;type:text;not null"`
}

func (TaxonomyEntry) TableName() string {
	return "taxonomy_entries"
}
