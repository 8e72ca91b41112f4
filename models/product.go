package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product prices are stored tax-exclusive; the tax-inclusive side is derived on read.
type Product struct {
	Id              string          `json:"id" gorm:"primaryKey"`
	Reference       string          `json:"reference" gorm:"size:50;uniqueIndex"`
	Name            string          `json:"name" gorm:"not null"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit" gorm:"size:20"`
	VATRate         decimal.Decimal `json:"vat_rate" gorm:"type:numeric(5,2);not null"`
	SalePriceHT     decimal.Decimal `json:"sale_price_ht" gorm:"type:numeric(12,2);not null"`
	PurchasePriceHT decimal.Decimal `json:"purchase_price_ht" gorm:"type:numeric(12,2);not null"`
	Active          bool            `json:"active" gorm:"not null"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if product.Id == "" {
		product.Id = uuid.NewString()
	}
	return
}
