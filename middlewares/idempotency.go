package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"facturation-backend/database"
	"facturation-backend/logger"
	"facturation-backend/models"
)

const maxIdempotencyKeyLen = 128

// Idempotency processes Idempotency-Key for mutating HTTP methods in a schema-safe way.
// Each phase uses its own short transaction pinned with SET LOCAL search_path.
func Idempotency(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		schema, userID, err := Tenant(c)
		if err != nil {
			return err
		}

		path := c.OriginalURL() // includes query string
		reqHash := requestHash(method, path, c.Body(), schema, userID)

		// ---- Phase 1: read/create "pending"
		var existing models.IdempotencyKey
		err = database.InTenant(db, schema, func(tx *gorm.DB) error {
			err := tx.Where("key = ?", key).First(&existing).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
			}
			rec := models.IdempotencyKey{
				Key:         key,
				RequestHash: reqHash,
				Method:      method,
				Path:        path,
				UserID:      userID,
			}
			if err := tx.Create(&rec).Error; err != nil {
				// Could be unique race: read again
				if err := tx.Where("key = ?", key).First(&existing).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
				}
				return nil
			}
			existing = rec
			return nil
		})
		if err != nil {
			return err
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			if existing.ResponseType != "" {
				c.Set(fiber.HeaderContentType, existing.ResponseType)
			}
			c.Set("Idempotent-Replayed", "true")
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		if err := c.Next(); err != nil {
			return err
		}

		// ---- Phase 2: store the response. Only successful responses are kept, so a failed
		// request can be retried with the same key.
		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			return nil
		}
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		now := time.Now().UTC()

		err = database.InTenant(db, schema, func(tx *gorm.DB) error {
			return tx.Model(&models.IdempotencyKey{}).
				Where("key = ?", key).
				Updates(map[string]any{
					"response_status": status,
					"response_type":   string(c.Response().Header.ContentType()),
					"response_body":   blob,
					"completed_at":    &now,
				}).Error
		})
		if err != nil {
			// best-effort: don't break the successful response
			log := logger.WithComponent("idempotency")
			log.Warn().Err(err).Str("tenant", schema).Msg("storing idempotent response failed")
		}
		return nil
	}
}

// requestHash is sha256 of method|path|body|schema|user.
func requestHash(method, path string, body []byte, schema, userID string) string {
	h := sha256.New()
	for i, part := range [][]byte{[]byte(method), []byte(path), body, []byte(schema), []byte(userID)} {
		if i > 0 {
			h.Write([]byte{'\n'})
		}
		h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
