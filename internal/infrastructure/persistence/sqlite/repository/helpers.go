package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"jobtrust/internal/errs"
	"jobtrust/internal/ports"
)

// dbFromContext prefers a transaction smuggled in by the unit of work over
// the repository's own handle.
func dbFromContext(ctx context.Context, fallback *gorm.DB) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return fallback.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func marshalJSON(v any, what string) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", errs.Wrapf(err, "marshal %s", what)
	}
	return string(raw), nil
}

// mustMarshalJSON is for values built entirely from already-typed structs,
// where marshaling cannot fail.
func mustMarshalJSON(v any) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}

func unmarshalJSON(raw string, v any, what string) error {
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return errs.Wrapf(err, "unmarshal %s", what)
	}
	return nil
}
