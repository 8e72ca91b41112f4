package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"facturation-backend/database"
	"facturation-backend/logger"
)

// TenantTx opens a per-request DB transaction pinned to the tenant schema.
// Order: run AFTER Auth.Required() (so schema/userID are present),
// and AFTER Idempotency() (so idempotency records aren't tied to the handler TX).
func TenantTx(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		schema, _ := c.Locals("schema").(string)
		if strings.TrimSpace(schema) == "" {
			return c.Next()
		}

		log := logger.WithComponent("tx")
		tx, e := database.BeginTenantTx(db.WithContext(c.UserContext()), schema)
		if e != nil {
			log.Error().Err(e).Str("tenant", schema).Msg("begin tenant tx failed")
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r)
			}
			// A handler may set an error status without returning an error.
			if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Error().Err(e).Str("tenant", schema).Msg("tx commit failed")
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		c.Locals("tx", tx)
		return c.Next()
	}
}
