package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"facturation-backend/models"
	"facturation-backend/settings"
)

// SettingsStore persists one settings document per tenant schema.
type SettingsStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db, now: time.Now}
}

// Load returns the saved document of tenant, or nil if none was saved yet.
func (s *SettingsStore) Load(ctx context.Context, tenant string) (*settings.CompanySettings, error) {
	var rec models.CompanySettingsRecord
	err := InTenant(s.db.WithContext(ctx), tenant, func(tx *gorm.DB) error {
		return tx.First(&rec, models.SettingsRowID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	doc := rec.Document.Data()
	return &doc, nil
}

const upsertSettings = `INSERT INTO company_settings (id, document, updated_at) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`

// Save replaces the whole document of tenant.
func (s *SettingsStore) Save(ctx context.Context, tenant string, doc *settings.CompanySettings) error {
	if doc == nil {
		return errors.New("save settings: nil document")
	}
	err := InTenant(s.db.WithContext(ctx), tenant, func(tx *gorm.DB) error {
		return tx.Exec(upsertSettings, models.SettingsRowID, datatypes.NewJSONType(*doc), s.now().UTC()).Error
	})
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
