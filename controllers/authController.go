package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"facturation-backend/database"
	"facturation-backend/logger"
	"facturation-backend/middlewares"
	"facturation-backend/models"
	"facturation-backend/settings"
)

type RegisterDTO struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	CompanyName     string `json:"company_name" validate:"required,max=150"`
	Address         string `json:"address" validate:"max=255"`
	City            string `json:"city" validate:"max=100"`
	Zip             string `json:"zip" validate:"max=20"`
	Country         string `json:"country" validate:"max=100"`
	Phone           string `json:"phone" validate:"max=40"`
	TaxID           string `json:"tax_id" validate:"max=50"`
	Language        string `json:"language" validate:"omitempty,bcp47_language_tag"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthController registers tenants and issues tokens.
type AuthController struct {
	DB   *gorm.DB
	Auth *middlewares.Auth
}

// POST /api/registration
//
// Creates the user and the company registry row, then the tenant schema with its tables and a
// first settings document, all in one transaction.
func (h *AuthController) Register(c *fiber.Ctx) error {
	var in RegisterDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "email already exists")
	}

	schema, err := database.SchemaName(in.CompanyName)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "company name cannot be used as a tenant name")
	}

	user := models.User{
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Email:      email,
		SchemaName: schema,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return err
	}
	company := models.Company{
		CompanyName: strings.TrimSpace(in.CompanyName),
		Country:     strings.TrimSpace(in.Country),
		SchemaName:  schema,
	}
	doc := settings.Merge(&settings.CompanySettings{
		CompanyName: company.CompanyName,
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		Zip:         strings.TrimSpace(in.Zip),
		Country:     company.Country,
		Phone:       strings.TrimSpace(in.Phone),
		Email:       email,
		TaxID:       strings.TrimSpace(in.TaxID),
		Language:    in.Language,
	})
	if err := settings.Validate(doc); err != nil {
		return err
	}

	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not create user")
		}
		company.UserId = user.Id
		if err := tx.Create(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not create company")
		}
		if err := database.CreateSchema(tx, schema); err != nil {
			return err
		}
		if err := database.MigrateTenantSchema(tx, schema); err != nil {
			return err
		}
		return database.NewSettingsStore(tx).Save(c.UserContext(), schema, doc)
	})
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return fe
		}
		log := logger.WithComponent("auth")
		log.Error().Err(err).Str("tenant", schema).Msg("registration failed")
		return fiber.NewError(fiber.StatusInternalServerError, "registration failed due to internal error")
	}

	log := logger.WithComponent("auth")
	log.Info().Str("tenant", schema).Str("user", user.Id).Msg("tenant registered")
	company.User = user
	return c.Status(fiber.StatusCreated).JSON(company)
}

// POST /api/login
func (h *AuthController) Login(c *fiber.Ctx) error {
	var in LoginDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	var user models.User
	err := h.DB.WithContext(c.UserContext()).Table("public.users").
		Where("email = ?", strings.ToLower(strings.TrimSpace(in.Email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "db error")
	}
	if err := user.ComparePassword(in.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}

	// Keep older tenants on the current table layout.
	if err := database.MigrateTenantSchema(h.DB, user.SchemaName); err != nil {
		log := logger.WithComponent("auth")
		log.Error().Err(err).Str("tenant", user.SchemaName).Msg("tenant migration failed")
		return fiber.NewError(fiber.StatusInternalServerError, "could not migrate tenant schema")
	}

	token, err := h.Auth.Issue(user.Id, user.SchemaName)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token":  token,
		"schema": user.SchemaName,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FullName(),
			"email": user.Email,
		},
	})
}

// POST /api/logout
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{
		"message": "success",
	})
}
