package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"facturation-backend/middlewares"
	"facturation-backend/preview"
	"facturation-backend/settings"
)

// maxImportBytes bounds an uploaded backup file.
const maxImportBytes = 8 << 20

type ColumnsDTO struct {
	Columns settings.ColumnSet  `json:"columns" validate:"required,unique=ID,dive"`
	Ops     []settings.ColumnOp `json:"ops"`
}

// SettingsController serves the settings working copy of the current tenant.
type SettingsController struct {
	Gateway settings.Gateway
	Now     func() time.Time
	PDF     preview.PDFOptions
}

func (h *SettingsController) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// GET /api/settings
func (h *SettingsController) Get(c *fiber.Ctx) error {
	schema, _, err := middlewares.Tenant(c)
	if err != nil {
		return err
	}
	doc, err := settings.WorkingCopy(c.UserContext(), h.Gateway, schema)
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// PUT /api/settings
//
// The body is the whole working copy. Nothing is written unless it validates.
func (h *SettingsController) Put(c *fiber.Ctx) error {
	schema, _, err := middlewares.Tenant(c)
	if err != nil {
		return err
	}
	var in settings.CompanySettings
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	doc := settings.Merge(&in)
	if err := settings.Commit(c.UserContext(), h.Gateway, schema, doc); err != nil {
		return err
	}
	return c.JSON(doc)
}

// GET /api/settings/export
func (h *SettingsController) Export(c *fiber.Ctx) error {
	schema, _, err := middlewares.Tenant(c)
	if err != nil {
		return err
	}
	doc, err := settings.WorkingCopy(c.UserContext(), h.Gateway, schema)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	c.Attachment(fmt.Sprintf("settings-%s-%s.json", schema, h.now().Format("20060102")))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// POST /api/settings/import
//
// Accepts a backup either as the raw JSON body or as a multipart "file" field. The backup is
// completed with the defaults and replaces the stored settings.
func (h *SettingsController) Import(c *fiber.Ctx) error {
	schema, _, err := middlewares.Tenant(c)
	if err != nil {
		return err
	}
	raw, err := importPayload(c)
	if err != nil {
		return err
	}

	var in settings.CompanySettings
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "backup is not a settings document")
	}
	doc := settings.Merge(&in)
	if err := settings.Commit(c.UserContext(), h.Gateway, schema, doc); err != nil {
		return err
	}
	return c.JSON(doc)
}

func importPayload(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return c.Body(), nil
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "missing backup file")
	}
	if fh.Size > maxImportBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "backup file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unreadable backup file")
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxImportBytes))
}

// POST /api/settings/columns
//
// Applies column operations to the posted list and returns the result. Nothing is stored.
func (h *SettingsController) Columns(c *fiber.Ctx) error {
	var in ColumnsDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	cols := append(settings.ColumnSet(nil), in.Columns...)
	if err := cols.Apply(in.Ops); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"columns": cols})
}

// GET /api/settings/preview/:kind.:format renders the stored settings; POST renders the posted
// working copy.
func (h *SettingsController) Preview(c *fiber.Ctx) error {
	schema, _, err := middlewares.Tenant(c)
	if err != nil {
		return err
	}
	kind, err := settings.ParseDocumentKind(c.Params("kind"))
	if err != nil {
		return err
	}
	format := strings.ToLower(c.Params("format"))
	if format != "pdf" && format != "xlsx" {
		return fiber.NewError(fiber.StatusNotFound, "unknown preview format")
	}

	var doc *settings.CompanySettings
	if c.Method() == fiber.MethodPost {
		doc = &settings.CompanySettings{}
		if err := c.BodyParser(doc); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		// An unsaved working copy is held to the same rules as a saved one.
		doc = settings.Merge(doc)
		if err := settings.Validate(doc); err != nil {
			return err
		}
	} else if doc, err = h.Gateway.Load(c.UserContext(), schema); err != nil {
		return err
	}

	layout, err := preview.NewLayout(doc, kind, h.now())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	name := fmt.Sprintf("%s-preview.%s", kind, format)
	if format == "pdf" {
		if err := preview.RenderPDF(&buf, layout, h.PDF); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	} else {
		if err := preview.RenderXLSX(&buf, layout); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	}
	return c.Send(buf.Bytes())
}
