package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Health reports whether the API and its database answer.
func Health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.UserContext())
			}
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "unreachable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
