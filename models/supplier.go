package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Supplier struct {
	Id          string    `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"not null;unique"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Zip         string    `json:"zip"`
	Homepage    string    `json:"homepage"`
	TaxID       string    `json:"tax_id"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

func (supplier *Supplier) BeforeCreate(tx *gorm.DB) (err error) {
	if supplier.Id == "" {
		supplier.Id = uuid.NewString()
	}
	return
}
