package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"facturation-backend/database"
	"facturation-backend/middlewares"
	"facturation-backend/settings"
)

// SequenceAllocator issues real document numbers.
type SequenceAllocator interface {
	Next(ctx context.Context, tenant string, kind settings.DocumentKind, cfg settings.NumberingConfig, now time.Time) (database.Issued, error)
}

type NumberingPreviewDTO struct {
	// Kind previews the stored config of a kind; Config previews a posted one.
	Kind   settings.DocumentKind     `json:"kind"`
	Config *settings.NumberingConfig `json:"config"`
	Number int                       `json:"number" validate:"min=0"`
	Year   int                       `json:"year" validate:"omitempty,min=1,max=9999"`
}

// NumberingController previews and allocates document references.
type NumberingController struct {
	Gateway   settings.Gateway
	Sequences SequenceAllocator
	Now       func() time.Time
}

func (h *NumberingController) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// POST /api/numbering/preview
func (h *NumberingController) Preview(c *fiber.Ctx) error {
	var in NumberingPreviewDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	now := h.now()
	cfg := in.Config
	if cfg == nil {
		if !in.Kind.IsValid() {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "kind or config is required")
		}
		schema, _, err := middlewares.Tenant(c)
		if err != nil {
			return err
		}
		doc, err := settings.WorkingCopy(c.UserContext(), h.Gateway, schema)
		if err != nil {
			return err
		}
		cfg = doc.Numbering(in.Kind)
	} else if err := settings.ValidateNumbering(*cfg); err != nil {
		return err
	}

	number := in.Number
	if number == 0 {
		number = cfg.StartNumber
	}
	year := now.Year()
	if in.Year != 0 {
		year = in.Year
	}
	return c.JSON(fiber.Map{"preview": settings.Format(*cfg, number, year)})
}

// POST /api/numbering/:kind/next
func (h *NumberingController) Next(c *fiber.Ctx) error {
	schema, _, err := middlewares.Tenant(c)
	if err != nil {
		return err
	}
	kind, err := settings.ParseDocumentKind(c.Params("kind"))
	if err != nil {
		return err
	}
	doc, err := settings.WorkingCopy(c.UserContext(), h.Gateway, schema)
	if err != nil {
		return err
	}
	issued, err := h.Sequences.Next(c.UserContext(), schema, kind, *doc.Numbering(kind), h.now())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(issued)
}
