package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"facturation-backend/settings"
)

var numberingCmd = &cobra.Command{
	Use:   "numbering",
	Short: "Document numbering helpers",
}

var numberingPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the reference a numbering rule produces",
	Example: `  # FAC/2026/00017
  facturation numbering preview --prefix FAC --separator / --number 17 --year 2026

  # Short year, no separator
  facturation numbering preview --prefix AV --year-format YY --padding 4`,
	Args: cobra.NoArgs,
	// Pure formatting, no config or database needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runNumberingPreview,
}

func init() {
	f := numberingPreviewCmd.Flags()
	f.String("prefix", "FAC", "Reference prefix")
	f.String("year-format", string(settings.YearFull), "Year format: YYYY, YY or NONE")
	f.Int("start", 1, "Start number of the sequence")
	f.Int("padding", 5, "Minimum number width, zero padded")
	f.String("separator", "-", "Separator between prefix, year and number")
	f.Int("number", 0, "Number to render (default: the start number)")
	f.Int("year", 0, "Year to render (default: current year)")

	numberingCmd.AddCommand(numberingPreviewCmd)
	rootCmd.AddCommand(numberingCmd)
}

func runNumberingPreview(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	prefix, _ := f.GetString("prefix")
	yearFormat, _ := f.GetString("year-format")
	start, _ := f.GetInt("start")
	padding, _ := f.GetInt("padding")
	separator, _ := f.GetString("separator")
	number, _ := f.GetInt("number")
	year, _ := f.GetInt("year")

	cfg := settings.NumberingConfig{
		Prefix:      prefix,
		YearFormat:  settings.YearFormat(yearFormat),
		StartNumber: start,
		Padding:     padding,
		Separator:   separator,
	}
	if err := settings.ValidateNumbering(cfg); err != nil {
		return fmt.Errorf("invalid numbering rule: %w", err)
	}
	if number == 0 {
		number = start
	}
	if year == 0 {
		year = time.Now().Year()
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), settings.Format(cfg, number, year))
	return err
}
