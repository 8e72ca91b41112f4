package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"facturation-backend/settings"
)

// PDFOptions tune the PDF renderer.
type PDFOptions struct {
	// FontPath is a UTF-8 TrueType font. Without one the core Helvetica font is used, which
	// covers Latin text only.
	FontPath string
}

// column widths as shares of the table width, rescaled over the visible columns
var columnWeights = map[string]float64{
	settings.ColumnReference: 0.14,
	settings.ColumnName:      0.36,
	settings.ColumnQuantity:  0.08,
	settings.ColumnUnitPrice: 0.15,
	settings.ColumnVAT:       0.09,
	settings.ColumnTotal:     0.18,
}

const (
	margin   = 15.0
	rowH     = 7.0
	logoSize = 28.0
)

// RenderPDF draws the layout on an A4 page and writes it to w.
func RenderPDF(w io.Writer, l *Layout, opts PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(l.Title+" "+l.Reference, true)
	pdf.SetCreator("facturation-backend", true)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		family = "doc"
		pdf.AddUTF8Font(family, "", opts.FontPath)
		pdf.AddUTF8Font(family, "B", opts.FontPath)
		tr = func(s string) string { return s }
	}
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*margin
	align, opposite := "L", "R"
	if l.Locale.RTL {
		align, opposite = "R", "L"
	}

	// ── Header ───────────────────────────────────────────────────────────────
	drawLogo(pdf, l, pageW)
	headerX := margin
	if l.Locale.RTL {
		headerX = margin + logoSize
	}
	pdf.SetTextColor(l.Color.R, l.Color.G, l.Color.B)
	pdf.SetFont(family, "B", 14)
	pdf.SetX(headerX)
	pdf.CellFormat(contentW-logoSize, 7, tr(l.Company.CompanyName), "", 1, align, false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(family, "", 9)
	for _, line := range l.AddressLines() {
		pdf.SetX(headerX)
		pdf.CellFormat(contentW-logoSize, 4.5, tr(line), "", 1, align, false, 0, "")
	}
	pdf.SetY(margin + logoSize + 6)

	// ── Title and reference ──────────────────────────────────────────────────
	pdf.SetFont(family, "B", 18)
	pdf.CellFormat(contentW, 9, tr(strings.ToUpper(l.Title)), "", 1, opposite, false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(contentW, 5, tr(l.Reference), "", 1, opposite, false, 0, "")
	pdf.CellFormat(contentW, 5, l.Date.Format("02/01/2006"), "", 1, opposite, false, 0, "")
	pdf.Ln(6)

	// ── Items table ──────────────────────────────────────────────────────────
	cols := l.Columns
	if l.Locale.RTL {
		cols = reversed(cols)
	}
	widths := columnWidths(cols, contentW)

	pdf.SetFillColor(l.Color.R, l.Color.G, l.Color.B)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(family, "B", 9)
	for i, c := range cols {
		pdf.CellFormat(widths[i], rowH, tr(c.Label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(family, "", 9)
	for _, line := range l.Lines {
		for i, c := range cols {
			pdf.CellFormat(widths[i], rowH, tr(l.Cell(c.ID, line)), "1", 0, cellAlign(c.ID, align), false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// ── Totals ───────────────────────────────────────────────────────────────
	t := l.Totals()
	labelW, valueW := contentW*0.25, contentW*0.2
	offset := contentW - labelW - valueW
	if l.Locale.RTL {
		offset = 0
	}
	rows := []struct {
		label string
		value string
		bold  bool
	}{
		{l.Labels.TotalHT, l.Money(t.HT), false},
		{l.Labels.TotalTax, l.Money(t.Tax), false},
		{l.Labels.TotalNet, l.Money(t.TTC), true},
	}
	for _, r := range rows {
		style := ""
		if r.bold {
			style = "B"
		}
		pdf.SetFont(family, style, 10)
		pdf.SetX(margin + offset)
		pdf.CellFormat(labelW, rowH, tr(r.label), "1", 0, align, false, 0, "")
		pdf.CellFormat(valueW, rowH, tr(r.value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont(family, "", 9)
	pdf.MultiCell(contentW, 5, tr(l.Labels.AmountInWordsPrefix+" "+l.Money(t.TTC)), "", align, false)
	pdf.Ln(8)

	// ── Signatures ───────────────────────────────────────────────────────────
	boxW := contentW/2 - 5
	y := pdf.GetY()
	pdf.SetFont(family, "B", 9)
	sender, recipient := l.Labels.SignatureSender, l.Labels.SignatureRecipient
	if l.Locale.RTL {
		sender, recipient = recipient, sender
	}
	for i, caption := range []string{sender, recipient} {
		x := margin + float64(i)*(boxW+10)
		pdf.SetXY(x, y)
		pdf.CellFormat(boxW, 6, tr(caption), "", 1, "C", false, 0, "")
		pdf.Rect(x, y+7, boxW, 25, "D")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write: %w", err)
	}
	return nil
}

// drawLogo places the logo in the top corner opposite the reading start. An unreadable logo
// is skipped.
func drawLogo(pdf *fpdf.Fpdf, l *Layout, pageW float64) {
	imgType, raw, ok := logoImage(l.Company.Logo)
	if !ok {
		return
	}
	x := pageW - margin - logoSize
	if l.Locale.RTL {
		x = margin
	}
	opts := fpdf.ImageOptions{ImageType: imgType}
	info := pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(raw))
	if info == nil || pdf.Error() != nil {
		pdf.ClearError()
		return
	}
	pdf.ImageOptions("logo", x, margin, logoSize, 0, false, opts, 0, "")
}

// logoImage decodes a base64 data URL in a format fpdf can embed.
func logoImage(dataURL string) (imgType string, raw []byte, ok bool) {
	meta, payload, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasPrefix(meta, "data:image/") || !strings.HasSuffix(meta, ";base64") {
		return "", nil, false
	}
	switch strings.TrimSuffix(strings.TrimPrefix(meta, "data:image/"), ";base64") {
	case "png":
		imgType = "PNG"
	case "jpeg", "jpg":
		imgType = "JPG"
	case "gif":
		imgType = "GIF"
	default:
		return "", nil, false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, false
	}
	return imgType, raw, true
}

func columnWidths(cols []settings.DocumentColumn, total float64) []float64 {
	sum := 0.0
	for _, c := range cols {
		sum += columnWeights[c.ID]
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		if sum > 0 {
			out[i] = total * columnWeights[c.ID] / sum
		}
	}
	return out
}

func cellAlign(id, text string) string {
	switch id {
	case settings.ColumnQuantity, settings.ColumnVAT:
		return "C"
	case settings.ColumnUnitPrice, settings.ColumnTotal:
		return "R"
	}
	return text
}

func reversed(cols []settings.DocumentColumn) []settings.DocumentColumn {
	out := make([]settings.DocumentColumn, len(cols))
	for i, c := range cols {
		out[len(cols)-1-i] = c
	}
	return out
}
