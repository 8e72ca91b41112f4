package models

import (
	"time"

	"gorm.io/datatypes"

	"facturation-backend/settings"
)

// SettingsRowID is the id of the single settings row of a tenant schema.
const SettingsRowID = 1

// CompanySettingsRecord stores a tenant's settings document verbatim as jsonb.
type CompanySettingsRecord struct {
	ID        uint                                         `gorm:"primaryKey"`
	Document  datatypes.JSONType[settings.CompanySettings] `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (CompanySettingsRecord) TableName() string {
	return "company_settings"
}
