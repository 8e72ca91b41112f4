package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facturation-backend/settings"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	// Flag values persist on the shared command tree between runs.
	t.Cleanup(func() {
		numberingPreviewCmd.Flags().VisitAll(func(f *pflag.Flag) { _ = f.Value.Set(f.DefValue); f.Changed = false })
	})
	_, err := rootCmd.ExecuteC()
	return out.String(), err
}

func TestNumberingPreview(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"explicit number and year", []string{"--prefix", "FAC", "--separator", "/", "--number", "17", "--year", "2026"}, "FAC/2026/00017"},
		{"start number is the default", []string{"--prefix", "BC", "--year-format", "NONE", "--start", "7", "--padding", "3"}, "BC-007"},
		{"short year without separator", []string{"--prefix", "AV", "--year-format", "YY", "--separator", "", "--padding", "4", "--year", "2031", "--number", "42"}, "AV310042"},
		{"wide numbers are not truncated", []string{"--padding", "2", "--number", "12345", "--year", "2026"}, "FAC-2026-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"numbering", "preview"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestNumberingPreview_InvalidRule(t *testing.T) {
	_, err := run(t, "numbering", "preview", "--padding", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid numbering rule")

	_, err = run(t, "numbering", "preview", "--year-format", "YYY")
	assert.Error(t, err)
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{{"serve"}, {"migrate"}, {"settings", "export"}, {"settings", "import"}, {"numbering", "preview"}} {
		c, _, err := rootCmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], c.Name())
	}
}

func TestReadSettings_CompletesWithDefaults(t *testing.T) {
	doc, err := readSettings(strings.NewReader(`{"companyName":"Atlas SARL","language":"en"}`))
	require.NoError(t, err)
	assert.Equal(t, "Atlas SARL", doc.CompanyName)
	assert.Equal(t, "FAC", doc.InvoiceNumbering.Prefix)
	assert.Len(t, doc.DocumentColumns, 6)
	assert.NoError(t, settings.Validate(doc))

	var buf bytes.Buffer
	require.NoError(t, writeSettings(&buf, doc))
	again, err := readSettings(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc, again)

	_, err = readSettings(strings.NewReader(`[1,2]`))
	assert.Error(t, err)
}
