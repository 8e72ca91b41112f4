package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Client struct {
	Id          string    `json:"id" gorm:"primaryKey"`
	CompanyName string    `json:"company_name" gorm:"not null"`
	ContactName string    `json:"contact_name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Zip         string    `json:"zip"`
	Email       string    `json:"email" gorm:"index"`
	Phone       string    `json:"phone"`
	TaxID       string    `json:"tax_id"`
	Active      bool      `json:"active" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (client *Client) BeforeCreate(tx *gorm.DB) (err error) {
	if client.Id == "" {
		client.Id = uuid.NewString()
	}
	return
}
