package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"facturation-backend/settings"
)

// SequenceStore issues real document numbers.
type SequenceStore struct {
	db *gorm.DB
}

func NewSequenceStore(db *gorm.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

// The first number of a (kind, year) is the config's start number; later ones increment, but
// never fall below a start number that was raised in the meantime.
const nextNumber = `INSERT INTO number_sequences (kind, year, last_value, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (kind, year) DO UPDATE
SET last_value = GREATEST(number_sequences.last_value + 1, EXCLUDED.last_value), updated_at = EXCLUDED.updated_at
RETURNING last_value`

// Issued is an allocated document number.
type Issued struct {
	Kind      settings.DocumentKind `json:"kind"`
	Number    int64                 `json:"number"`
	Year      int                   `json:"year"`
	Reference string                `json:"reference"`
}

// Next allocates the next number of kind under cfg in a single statement, so concurrent
// callers never receive the same number.
func (s *SequenceStore) Next(ctx context.Context, tenant string, kind settings.DocumentKind, cfg settings.NumberingConfig, now time.Time) (Issued, error) {
	year := settings.SequenceYear(cfg, now)
	var n int64
	err := InTenant(s.db.WithContext(ctx), tenant, func(tx *gorm.DB) error {
		return tx.Raw(nextNumber, string(kind), year, cfg.StartNumber, now.UTC()).Scan(&n).Error
	})
	if err != nil {
		return Issued{}, fmt.Errorf("allocate %s number: %w", kind, err)
	}
	return Issued{
		Kind:      kind,
		Number:    n,
		Year:      year,
		Reference: settings.Format(cfg, int(n), now.Year()),
	}, nil
}
