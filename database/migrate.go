package database

import (
	"fmt"

	"gorm.io/gorm"

	"facturation-backend/models"
)

// MigrateTenantSchema applies (idempotent) schema migrations for a single tenant schema:
// tables, money column types and basic CHECK constraints.
func MigrateTenantSchema(db *gorm.DB, schema string) error {
	return InTenant(db, schema, func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.CompanySettingsRecord{},
			&models.NumberSequence{},
			&models.Product{},
			&models.Client{},
			&models.Supplier{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("tenant automigrate failed: %w", err)
		}

		checks := []struct{ table, name, expr string }{
			{"products", "chk_products_sale_price_nonneg", "sale_price_ht >= 0"},
			{"products", "chk_products_purchase_price_nonneg", "purchase_price_ht >= 0"},
			{"products", "chk_products_vat_rate_range", "vat_rate >= 0 AND vat_rate <= 100"},
			{"number_sequences", "chk_number_sequences_positive", "last_value >= 1"},
			{"company_settings", "chk_company_settings_single_row", "id = 1"},
		}
		for _, c := range checks {
			stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
	END IF;
END $$;`, c.table, c.name, c.table, c.name, c.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed on %s: %w", c.name, err)
			}
		}
		return nil
	})
}
