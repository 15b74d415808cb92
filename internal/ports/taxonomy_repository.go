package ports

import "context"

// Taxonomy entry kinds.
const (
	TaxonomyKindTitle    = "title"
	TaxonomyKindSkill    = "skill"
	TaxonomyKindIndustry = "industry"
)

// TaxonomyEntry maps a raw observed term to its canonical form and counts
// how often the raw form has been seen.
type TaxonomyEntry struct {
	Kind            string
	RawTerm         string
	Canonical       string
	OccurrenceCount int64
	// Verified marks curated entries; observation upserts never touch it.
	Verified  bool
	UpdatedAt string
}

type TaxonomyReadRepository interface {
	// Lookup resolves a raw term; found is false when the term has never
	// been observed or seeded.
	Lookup(ctx context.Context, kind string, rawTerm string) (TaxonomyEntry, bool, error)
	// IsCanonical reports whether a term is a known canonical form of the
	// given kind.
	IsCanonical(ctx context.Context, kind string, term string) (bool, error)
	ListEntries(ctx context.Context, kind string, limit int) ([]TaxonomyEntry, error)
}

type TaxonomyRepository interface {
	TaxonomyReadRepository
	// RecordObservation upserts a raw-to-canonical mapping and increments
	// its occurrence count in a single statement, so concurrent
	// normalizations never lose counts.
	RecordObservation(ctx context.Context, kind string, rawTerm string, canonical string, observedAt string) error
	SeedEntries(ctx context.Context, entries []TaxonomyEntry) error
}
