package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"facturation-backend/middlewares"
	"facturation-backend/pricing"
)

type ConvertDTO struct {
	VATRate decimal.Decimal `json:"vat_rate"`
	Value   decimal.Decimal `json:"value"`
	Mode    pricing.Mode    `json:"mode" validate:"omitempty,oneof=HT TTC"`
}

// POST /api/pricing/convert
func ConvertPrice(c *fiber.Ctx) error {
	var in ConvertDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	conv, err := pricing.NewConverter(in.VATRate)
	if err != nil {
		return err
	}
	ht, err := conv.Resolve(pricing.Entry{Value: in.Value, Mode: in.Mode})
	if err != nil {
		return err
	}
	pair := conv.Display(pricing.Price{HT: ht})
	return c.JSON(fiber.Map{
		"vat_rate": conv.Rate(),
		"ht":       pair.HT,
		"ttc":      pair.TTC,
		"tax":      conv.Tax(ht),
	})
}
