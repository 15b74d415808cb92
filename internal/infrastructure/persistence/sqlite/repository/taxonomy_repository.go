package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobtrust/internal/errs"
	"jobtrust/internal/infrastructure/persistence/sqlite/model"
	"jobtrust/internal/ports"
)

type TaxonomyRepository struct {
	db *gorm.DB
}

var _ ports.TaxonomyRepository = (*TaxonomyRepository)(nil)

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{db: db}
}

func (r *TaxonomyRepository) Lookup(ctx context.Context, kind string, rawTerm string) (ports.TaxonomyEntry, bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return ports.TaxonomyEntry{}, false, err
	}

	var row model.TaxonomyEntry
	if err := db.Where("kind = ? AND raw_term = ?", kind, normalizeTerm(rawTerm)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TaxonomyEntry{}, false, nil
		}
		return ports.TaxonomyEntry{}, false, errs.Wrap(err, "query taxonomy entry")
	}
	return mapTaxonomyEntry(row), true, nil
}

func (r *TaxonomyRepository) IsCanonical(ctx context.Context, kind string, term string) (bool, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return false, err
	}

	var count int64
	if err := db.Model(&model.TaxonomyEntry{}).
		Where("kind = ? AND canonical = ?", kind, term).
		Count(&count).Error; err != nil {
		return false, errs.Wrap(err, "count canonical terms")
	}
	return count > 0, nil
}

func (r *TaxonomyRepository) ListEntries(ctx context.Context, kind string, limit int) ([]ports.TaxonomyEntry, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return nil, err
	}

	query := db.Model(&model.TaxonomyEntry{}).
		Where("kind = ?", kind).
		Order("occurrence_count desc, raw_term asc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []model.TaxonomyEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query taxonomy entries")
	}

	entries := make([]ports.TaxonomyEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, mapTaxonomyEntry(row))
	}
	return entries, nil
}

// RecordObservation is a single upsert-or-increment statement, so two
// concurrent normalizations observing the same term both count.
func (r *TaxonomyRepository) RecordObservation(ctx context.Context, kind string, rawTerm string, canonical string, observedAt string) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	term := normalizeTerm(rawTerm)
	if term == "" {
		return errors.New("raw term is required")
	}

	row := model.TaxonomyEntry{
		Kind:            kind,
		RawTerm:         term,
		Canonical:       canonical,
		OccurrenceCount: 1,
		UpdatedAt:       observedAt,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "raw_term"}},
		DoUpdates: clause.Assignments(map[string]any{
			"occurrence_count": gorm.Expr("occurrence_count + 1"),
			"canonical":        canonical,
			"updated_at":       observedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "record taxonomy observation")
	}
	return nil
}

func (r *TaxonomyRepository) SeedEntries(ctx context.Context, entries []ports.TaxonomyEntry) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	rows := make([]model.TaxonomyEntry, 0, len(entries))
	for _, entry := range entries {
		term := normalizeTerm(entry.RawTerm)
		if term == "" {
			continue
		}
		rows = append(rows, model.TaxonomyEntry{
			Kind:            entry.Kind,
			RawTerm:         term,
			Canonical:       entry.Canonical,
			OccurrenceCount: entry.OccurrenceCount,
			Verified:        true,
			UpdatedAt:       entry.UpdatedAt,
		})
	}

	// Seeding refreshes the canonical form but never resets counts.
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "kind"}, {Name: "raw_term"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"canonical", "verified", "updated_at",
		}),
	}).Create(&rows).Error; err != nil {
		return errs.Wrap(err, "seed taxonomy entries")
	}
	return nil
}

func normalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func mapTaxonomyEntry(row model.TaxonomyEntry) ports.TaxonomyEntry {
	return ports.TaxonomyEntry{
		Kind:            row.Kind,
		RawTerm:         row.RawTerm,
		Canonical:       row.Canonical,
		OccurrenceCount: row.OccurrenceCount,
		Verified:        row.Verified,
		UpdatedAt:       row.UpdatedAt,
	}
}
