package database

import (
	"fmt"
	"regexp"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"facturation-backend/models"
)

var DB *gorm.DB

// Connect opens the shared connection pool. Tenants are separated by schema, not by database.
func Connect(dsn string) error {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	DB = db
	return nil
}

// AutoMigrate migrates the public registry tables.
func AutoMigrate() error {
	return DB.AutoMigrate(&models.User{}, &models.Company{})
}

var (
	schemaPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	unsafeChars   = regexp.MustCompile(`[^a-z0-9_]+`)
)

const maxSchemaLen = 63 // postgres identifier limit

// SchemaName derives a tenant schema name from a company name.
func SchemaName(companyName string) (string, error) {
	safe := unsafeChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(companyName)), "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "", fmt.Errorf("invalid schema name after sanitization: %q", companyName)
	}
	name := "t_" + safe
	if len(name) > maxSchemaLen {
		name = strings.TrimRight(name[:maxSchemaLen], "_")
	}
	return name, nil
}

// ValidSchema reports whether s is safe to splice into a search_path statement.
func ValidSchema(s string) bool {
	return schemaPattern.MatchString(s) && len(s) <= maxSchemaLen
}

// CreateSchema creates a tenant schema if it does not exist.
func CreateSchema(db *gorm.DB, schema string) error {
	if !ValidSchema(schema) {
		return fmt.Errorf("invalid schema name %q", schema)
	}
	return db.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}

// pinSchema scopes tx to the tenant schema until the transaction ends.
func pinSchema(tx *gorm.DB, schema string) error {
	if !ValidSchema(schema) {
		return fmt.Errorf("invalid schema name %q", schema)
	}
	if err := tx.Exec(`SET LOCAL search_path = "` + schema + `", public`).Error; err != nil {
		return fmt.Errorf("set search_path failed: %w", err)
	}
	return nil
}

// InTenant runs fn in a short transaction pinned to schema. SET LOCAL reverts at commit, so
// pooled connections never keep a tenant's search_path.
func InTenant(db *gorm.DB, schema string, fn func(tx *gorm.DB) error) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := pinSchema(tx, schema); err != nil {
			return err
		}
		return fn(tx)
	})
}
