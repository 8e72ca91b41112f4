package preview

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet layout of RenderXLSX.
const (
	titleRow  = 1
	headerRow = 4
	firstLine = 5
)

// RenderXLSX writes the layout's sample table to a one-sheet workbook.
func RenderXLSX(w io.Writer, l *Layout) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sheet := l.Title
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if l.Locale.RTL {
		rtl := true
		if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}

	brand := fmt.Sprintf("%02X%02X%02X", l.Color.R, l.Color.G, l.Color.B)
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{brand}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	set := func(col, row int, v any) {
		if err != nil {
			return
		}
		var cell string
		if cell, err = excelize.CoordinatesToCellName(col, row); err != nil {
			return
		}
		if d, ok := v.(decimal.Decimal); ok {
			v = d.InexactFloat64()
		}
		err = f.SetCellValue(sheet, cell, v)
	}

	set(1, titleRow, l.Company.CompanyName)
	set(1, titleRow+1, l.Title)
	set(2, titleRow+1, l.Reference)
	set(3, titleRow+1, l.Date.Format("2006-01-02"))

	for i, c := range l.Columns {
		set(i+1, headerRow, c.Label)
	}
	for r, line := range l.Lines {
		for i, c := range l.Columns {
			set(i+1, firstLine+r, l.Value(c.ID, line))
		}
	}

	t := l.Totals()
	labelCol := len(l.Columns) - 1
	if labelCol < 1 {
		labelCol = 1
	}
	row := firstLine + len(l.Lines) + 1
	for i, tot := range []struct {
		label string
		value decimal.Decimal
	}{
		{l.Labels.TotalHT, t.HT},
		{l.Labels.TotalTax, t.Tax},
		{l.Labels.TotalNet, t.TTC},
	} {
		set(labelCol, row+i, tot.label)
		set(labelCol+1, row+i, tot.value)
	}
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	if len(l.Columns) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(l.Columns), headerRow)
		if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", boldStyle); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "F", 18); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
