package controllers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"facturation-backend/imagestudio"
	"facturation-backend/middlewares"
)

// ImageStudio produces PNG data URLs.
type ImageStudio interface {
	Generate(ctx context.Context, prompt string, res imagestudio.Resolution) (string, error)
	Edit(ctx context.Context, source, instruction string) (string, error)
}

type GenerateImageDTO struct {
	Prompt     string                 `json:"prompt" validate:"required,max=4000"`
	Resolution imagestudio.Resolution `json:"resolution" validate:"omitempty,oneof=1K 2K 4K"`
}

type EditImageDTO struct {
	Image       string `json:"image" validate:"required"`
	Instruction string `json:"instruction" validate:"required,max=1000"`
}

type ImageController struct {
	Studio ImageStudio
}

// POST /api/images/generate
func (h *ImageController) Generate(c *fiber.Ctx) error {
	if h.Studio == nil {
		return imagestudio.ErrNotConfigured
	}
	var in GenerateImageDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	url, err := h.Studio.Generate(c.UserContext(), in.Prompt, in.Resolution)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"image": url})
}

// POST /api/images/edit
func (h *ImageController) Edit(c *fiber.Ctx) error {
	if h.Studio == nil {
		return imagestudio.ErrNotConfigured
	}
	var in EditImageDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	url, err := h.Studio.Edit(c.UserContext(), in.Image, in.Instruction)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"image": url})
}
