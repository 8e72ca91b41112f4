package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the public tenant registry entry. The company's editable identity (address,
// branding, numbering...) lives in the tenant's settings document, see CompanySettingsRecord.
type Company struct {
	Id          string    `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"not null;unique"`
	Country     string    `json:"country"`
	UserId      string    `json:"-"`
	User        User      `json:"user" gorm:"foreignKey:UserId;references:Id"`
	SchemaName  string    `json:"-" gorm:"not null;unique"`
	CreatedAt   time.Time `json:"created_at"`
}

func (company *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if company.Id == "" {
		company.Id = uuid.NewString()
	}
	return
}
