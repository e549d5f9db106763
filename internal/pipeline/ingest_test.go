package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"assetpipe/internal"
)

func TestReadInputUnsupportedExtension(t *testing.T) {
	_, err := ReadInput("inventory.pdf")
	assert.Error(t, err)
}

func TestReadCSVMissingColumns(t *testing.T) {
	// A feed without the provider column: rows simply lack the key, and the
	// normalizer turns that into the sentinel.
	path := filepath.Join(t.TempDir(), "partial.csv")
	blob := []byte("hostname,country\nsrv01,US\nsrv02,DE\n")
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	rows, err := ReadInput(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	_, hasProvider := rows[0].Values[internal.ColProvider]
	assert.False(t, hasProvider)

	rec := NormalizeRow(rows[0])
	assert.Equal(t, "srv01", rec.Hostname)
	assert.Equal(t, internal.Unknown, rec.Provider)
}

func TestReadInputXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]any{
		{"hostname", "country", "operating_system_provider"},
		{"srv01", "US", "Microsoft"},
		{"srv02", "", "Canonical"},
	}
	for r, row := range cells {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))

	rows, err := ReadInput(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "srv01", rows[0].Values[internal.ColHostname])
	assert.Equal(t, "Microsoft", rows[0].Values[internal.ColProvider])
}

func TestCleanedCSVRoundTrip(t *testing.T) {
	raw, err := ReadInput(filepath.Join("testdata", "inventory.csv"))
	require.NoError(t, err)
	records := DedupeRecords(NormalizeRows(raw))

	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, WriteCleanedCSV(records, path))

	loaded, err := ReadCleanedCSV(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(records))
	for i := range records {
		assert.Equal(t, records[i].Hostname, loaded[i].Hostname)
		assert.Equal(t, records[i].Country, loaded[i].Country)
		assert.Equal(t, records[i].Provider, loaded[i].Provider)
		assert.Equal(t, records[i].InstallDateString(), loaded[i].InstallDateString())
	}
}
