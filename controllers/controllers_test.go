package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturation-backend/database"
	"facturation-backend/imagestudio"
	"facturation-backend/middlewares"
	"facturation-backend/settings"
)

const tenant = "t_atlas"

var fixedNow = time.Date(2026, time.February, 2, 8, 30, 0, 0, time.UTC)

type memGateway struct {
	docs    map[string]*settings.CompanySettings
	loadErr error
	saveErr error
	saves   int
}

func (m *memGateway) Load(_ context.Context, t string) (*settings.CompanySettings, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.docs[t].Clone(), nil
}

func (m *memGateway) Save(_ context.Context, t string, doc *settings.CompanySettings) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.docs == nil {
		m.docs = map[string]*settings.CompanySettings{}
	}
	m.docs[t] = doc.Clone()
	return nil
}

type fakeSequences struct {
	last map[settings.DocumentKind]int64
	cfgs []settings.NumberingConfig
}

func (f *fakeSequences) Next(_ context.Context, _ string, kind settings.DocumentKind, cfg settings.NumberingConfig, now time.Time) (database.Issued, error) {
	if f.last == nil {
		f.last = map[settings.DocumentKind]int64{}
	}
	f.cfgs = append(f.cfgs, cfg)
	n := f.last[kind] + 1
	if n < int64(cfg.StartNumber) {
		n = int64(cfg.StartNumber)
	}
	f.last[kind] = n
	year := settings.SequenceYear(cfg, now)
	return database.Issued{Kind: kind, Number: n, Year: year, Reference: settings.Format(cfg, int(n), now.Year())}, nil
}

type stubStudio struct {
	url string
	err error
}

func (s *stubStudio) Generate(context.Context, string, imagestudio.Resolution) (string, error) {
	return s.url, s.err
}

func (s *stubStudio) Edit(context.Context, string, string) (string, error) {
	return s.url, s.err
}

// asTenant stands in for Auth.Required.
func asTenant(c *fiber.Ctx) error {
	c.Locals("schema", tenant)
	c.Locals("userID", "u-1")
	return c.Next()
}

type fixture struct {
	app       *fiber.App
	gateway   *memGateway
	sequences *fakeSequences
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{gateway: &memGateway{}, sequences: &fakeSequences{}}
	now := func() time.Time { return fixedNow }

	st := &SettingsController{Gateway: f.gateway, Now: now}
	num := &NumberingController{Gateway: f.gateway, Sequences: f.sequences, Now: now}

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	api := app.Group("/api", asTenant)
	api.Get("/settings", st.Get)
	api.Put("/settings", st.Put)
	api.Get("/settings/export", st.Export)
	api.Post("/settings/import", st.Import)
	api.Post("/settings/columns", st.Columns)
	api.Get("/settings/preview/:kind.:format", st.Preview)
	api.Post("/settings/preview/:kind.:format", st.Preview)
	api.Post("/numbering/preview", num.Preview)
	api.Post("/numbering/:kind/next", num.Next)
	api.Post("/pricing/convert", ConvertPrice)
	f.app = app
	return f
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSettings_GetFirstRun(t *testing.T) {
	f := newFixture(t)
	resp := do(t, f.app, "GET", "/api/settings", "")
	require.Equal(t, 200, resp.StatusCode)

	doc := decodeJSON[settings.CompanySettings](t, resp)
	require.NotNil(t, doc.InvoiceNumbering)
	assert.Equal(t, "FAC", doc.InvoiceNumbering.Prefix)
	assert.Len(t, doc.DocumentColumns, 6)
	assert.Equal(t, settings.PriceHT, doc.PriceDisplayMode)
	assert.Zero(t, f.gateway.saves)
}

func TestSettings_Put(t *testing.T) {
	t.Run("valid working copy is saved wholesale", func(t *testing.T) {
		f := newFixture(t)
		body := `{"companyName":"Atlas SARL","invoiceNumbering":{"prefix":"F","yearFormat":"YY","startNumber":7,"padding":3,"separator":"-"}}`
		resp := do(t, f.app, "PUT", "/api/settings", body)
		require.Equal(t, 200, resp.StatusCode)

		saved := f.gateway.docs[tenant]
		require.NotNil(t, saved)
		assert.Equal(t, "F-26-007", settings.Preview(saved, settings.KindInvoice, fixedNow))
		assert.Equal(t, "DEV", saved.QuoteNumbering.Prefix)
	})

	t.Run("validation failure writes nothing", func(t *testing.T) {
		f := newFixture(t)
		resp := do(t, f.app, "PUT", "/api/settings", `{"companyName":"","primaryColor":"red"}`)
		require.Equal(t, 422, resp.StatusCode)

		body := decodeJSON[map[string]any](t, resp)
		errs := body["errors"].(map[string]any)
		assert.Equal(t, "required", errs["companyName"])
		assert.Equal(t, "hexcolor", errs["primaryColor"])
		assert.Zero(t, f.gateway.saves)
	})

	t.Run("persistence failure reports the cause", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.saveErr = errors.New("connection refused")
		resp := do(t, f.app, "PUT", "/api/settings", `{"companyName":"Atlas SARL"}`)
		require.Equal(t, 500, resp.StatusCode)

		body := decodeJSON[map[string]any](t, resp)
		assert.Equal(t, "could not save settings: connection refused", body["message"])
	})

	t.Run("a blanked caption stays blank", func(t *testing.T) {
		f := newFixture(t)
		body := `{"companyName":"Atlas SARL","documentLabels":{"totalHt":"Total HT","totalTax":"TVA","totalNet":"Net","amountInWordsPrefix":"","signatureSender":"Cachet","signatureRecipient":"Client"}}`
		resp := do(t, f.app, "PUT", "/api/settings", body)
		require.Equal(t, 200, resp.StatusCode)

		saved := f.gateway.docs[tenant]
		require.NotNil(t, saved.DocumentLabels)
		assert.Empty(t, saved.DocumentLabels.AmountInWordsPrefix)
		assert.Equal(t, "TVA", saved.DocumentLabels.TotalTax)
	})

	t.Run("malformed body", func(t *testing.T) {
		f := newFixture(t)
		resp := do(t, f.app, "PUT", "/api/settings", `{"companyName":`)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestSettings_ExportImport(t *testing.T) {
	f := newFixture(t)
	f.gateway.docs = map[string]*settings.CompanySettings{
		tenant: settings.Merge(&settings.CompanySettings{CompanyName: "Atlas SARL", City: "Rabat"}),
	}

	resp := do(t, f.app, "GET", "/api/settings/export", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "settings-t_atlas-20260202.json")
	backup, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	other := newFixture(t)
	resp = do(t, other.app, "POST", "/api/settings/import", string(backup))
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, f.gateway.docs[tenant], other.gateway.docs[tenant])

	t.Run("multipart upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "backup.json")
		require.NoError(t, err)
		_, err = fw.Write(backup)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		third := newFixture(t)
		req := httptest.NewRequest("POST", "/api/settings/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		resp, err := third.app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "Rabat", third.gateway.docs[tenant].City)
	})

	t.Run("not a settings document", func(t *testing.T) {
		third := newFixture(t)
		resp := do(t, third.app, "POST", "/api/settings/import", `[1,2,3]`)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Zero(t, third.gateway.saves)
	})
}

func TestSettings_Columns(t *testing.T) {
	f := newFixture(t)
	cols, err := json.Marshal(settings.DefaultColumns(settings.NewLocale("fr")))
	require.NoError(t, err)

	body := `{"columns":` + string(cols) + `,"ops":[{"op":"move","index":1,"direction":"up"},{"op":"toggle","id":"vat"},{"op":"relabel","id":"total","label":"Montant"}]}`
	resp := do(t, f.app, "POST", "/api/settings/columns", body)
	require.Equal(t, 200, resp.StatusCode)

	out := decodeJSON[struct {
		Columns settings.ColumnSet `json:"columns"`
	}](t, resp)
	require.Len(t, out.Columns, 6)
	assert.Equal(t, settings.ColumnName, out.Columns[0].ID)
	assert.Equal(t, 1, out.Columns[0].Order)
	assert.False(t, out.Columns[4].Visible)
	assert.Equal(t, "Montant", out.Columns[5].Label)
	assert.Zero(t, f.gateway.saves)

	resp = do(t, f.app, "POST", "/api/settings/columns", `{"columns":`+string(cols)+`,"ops":[{"op":"drop","id":"vat"}]}`)
	assert.Equal(t, 422, resp.StatusCode)

	resp = do(t, f.app, "POST", "/api/settings/columns", `{"ops":[]}`)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestSettings_Preview(t *testing.T) {
	f := newFixture(t)

	resp := do(t, f.app, "GET", "/api/settings/preview/invoice.pdf", "")
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))

	resp = do(t, f.app, "POST", "/api/settings/preview/quote.xlsx", `{"companyName":"Atlas SARL","language":"en"}`)
	require.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "quote-preview.xlsx")

	assert.Equal(t, 400, do(t, f.app, "GET", "/api/settings/preview/receipt.pdf", "").StatusCode)
	assert.Equal(t, 404, do(t, f.app, "GET", "/api/settings/preview/invoice.docx", "").StatusCode)
}

func TestSettings_PreviewRejectsInvalidWorkingCopy(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"oversized padding", `{"companyName":"Atlas SARL","invoiceNumbering":{"prefix":"F","yearFormat":"YYYY","startNumber":1,"padding":20000000}}`, "padding"},
		{"negative start number", `{"companyName":"Atlas SARL","invoiceNumbering":{"prefix":"F","yearFormat":"YYYY","startNumber":-5,"padding":5}}`, "startNumber"},
		{"unknown year format", `{"companyName":"Atlas SARL","invoiceNumbering":{"prefix":"F","yearFormat":"QQ","startNumber":1,"padding":5}}`, "yearFormat"},
		{"unknown currency", `{"companyName":"Atlas SARL","currency":"XXQ"}`, "currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, f.app, "POST", "/api/settings/preview/invoice.xlsx", tt.body)
			require.Equal(t, 422, resp.StatusCode)
			assert.Empty(t, resp.Header.Get("Content-Disposition"))

			out := decodeJSON[struct {
				Errors map[string]string `json:"errors"`
			}](t, resp)
			assert.Contains(t, out.Errors, tt.field)
		})
	}
}

func TestNumbering_Preview(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"posted config", `{"config":{"prefix":"FAC","yearFormat":"YYYY","startNumber":1,"padding":5,"separator":"/"}}`, "FAC/2026/00001"},
		{"wide start number", `{"config":{"prefix":"FAC","yearFormat":"YYYY","startNumber":123,"padding":2,"separator":"/"}}`, "FAC/2026/123"},
		{"no year", `{"config":{"prefix":"BC","yearFormat":"NONE","startNumber":7,"padding":3,"separator":"-"}}`, "BC-007"},
		{"explicit number and year", `{"config":{"prefix":"AV","yearFormat":"YY","startNumber":1,"padding":4,"separator":""},"number":42,"year":2031}`, "AV310042"},
		{"stored kind", `{"kind":"deliveryNote"}`, "BL/2026/00001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, f.app, "POST", "/api/numbering/preview", tt.body)
			require.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, tt.want, decodeJSON[map[string]string](t, resp)["preview"])
		})
	}

	assert.Equal(t, 422, do(t, f.app, "POST", "/api/numbering/preview", `{}`).StatusCode)
	assert.Equal(t, 422, do(t, f.app, "POST", "/api/numbering/preview", `{"config":{"prefix":"F","yearFormat":"YYYY","startNumber":0,"padding":5}}`).StatusCode)
}

func TestNumbering_Next(t *testing.T) {
	f := newFixture(t)
	f.gateway.docs = map[string]*settings.CompanySettings{
		tenant: {CompanyName: "Atlas SARL", CreditNoteNumbering: &settings.NumberingConfig{Prefix: "AV", YearFormat: settings.YearNone, StartNumber: 40, Padding: 3, Separator: "-"}},
	}

	for _, want := range []string{"AV-040", "AV-041"} {
		resp := do(t, f.app, "POST", "/api/numbering/creditNote/next", "")
		require.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, want, decodeJSON[database.Issued](t, resp).Reference)
	}

	resp := do(t, f.app, "POST", "/api/numbering/invoice/next", "")
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "FAC/2026/00001", decodeJSON[database.Issued](t, resp).Reference)

	assert.Equal(t, 400, do(t, f.app, "POST", "/api/numbering/receipt/next", "").StatusCode)
}

func TestConvertPrice(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		body string
		ht   string
		ttc  string
	}{
		{`{"vat_rate":"20","value":"100","mode":"HT"}`, "100", "120"},
		{`{"vat_rate":20,"value":120,"mode":"TTC"}`, "100", "120"},
		{`{"vat_rate":"20","value":"121","mode":"TTC"}`, "100.83", "121"},
	}
	for _, tt := range tests {
		resp := do(t, f.app, "POST", "/api/pricing/convert", tt.body)
		require.Equal(t, 200, resp.StatusCode)
		out := decodeJSON[map[string]string](t, resp)
		assert.Equal(t, tt.ht, out["ht"], tt.body)
		assert.Equal(t, tt.ttc, out["ttc"], tt.body)
	}

	assert.Equal(t, 422, do(t, f.app, "POST", "/api/pricing/convert", `{"vat_rate":"120","value":"1"}`).StatusCode)
	assert.Equal(t, 422, do(t, f.app, "POST", "/api/pricing/convert", `{"vat_rate":"20","value":"1","mode":"NET"}`).StatusCode)
}

func TestImages(t *testing.T) {
	newApp := func(h *ImageController) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
		app.Post("/generate", h.Generate)
		app.Post("/edit", h.Edit)
		return app
	}

	t.Run("not configured", func(t *testing.T) {
		app := newApp(&ImageController{})
		assert.Equal(t, 503, do(t, app, "POST", "/generate", `{"prompt":"logo"}`).StatusCode)
	})

	t.Run("generate", func(t *testing.T) {
		app := newApp(&ImageController{Studio: &stubStudio{url: "data:image/png;base64,AAAA"}})
		resp := do(t, app, "POST", "/generate", `{"prompt":"a round stamp","resolution":"2K"}`)
		require.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "data:image/png;base64,AAAA", decodeJSON[map[string]string](t, resp)["image"])

		assert.Equal(t, 422, do(t, app, "POST", "/generate", `{"prompt":"x","resolution":"8K"}`).StatusCode)
		assert.Equal(t, 422, do(t, app, "POST", "/generate", `{}`).StatusCode)
	})

	t.Run("missing payload is a static 502", func(t *testing.T) {
		app := newApp(&ImageController{Studio: &stubStudio{err: imagestudio.ErrNoImage}})
		resp := do(t, app, "POST", "/edit", `{"image":"AAAA","instruction":"red"}`)
		require.Equal(t, 502, resp.StatusCode)
		assert.Equal(t, "image service failed", decodeJSON[map[string]string](t, resp)["message"])
	})
}

func TestJSONCasing(t *testing.T) {
	f := newFixture(t)

	// Settings surface: camelCase, the document format itself.
	resp := do(t, f.app, "GET", "/api/settings", "")
	require.Equal(t, 200, resp.StatusCode)
	doc := decodeJSON[map[string]any](t, resp)
	for _, key := range []string{"invoiceNumbering", "documentColumns", "priceDisplayMode"} {
		assert.Contains(t, doc, key)
	}

	// Catalog surface: snake_case, like the product rows it converts for.
	resp = do(t, f.app, "POST", "/api/pricing/convert", `{"vat_rate":"20","value":"100"}`)
	require.Equal(t, 200, resp.StatusCode)
	out := decodeJSON[map[string]any](t, resp)
	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"vat_rate", "ht", "ttc", "tax"}, keys)
}
