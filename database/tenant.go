package database

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetTenantDB returns the per-request transaction opened by middlewares.TenantTx.
func GetTenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx, nil
		}
	}
	return nil, errors.New("tenant transaction missing")
}

// BeginTenantTx opens a transaction on the shared pool pinned to schema. The caller commits
// or rolls back.
func BeginTenantTx(db *gorm.DB, schema string) (*gorm.DB, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	if err := pinSchema(tx, schema); err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	return tx, nil
}
