package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"assetpipe/internal"
)

// WriteCleanedCSV persists the normalized, deduplicated record set as the
// intermediate artifact handed to the loading phase. Columns follow the
// canonical order; absent dates are written as empty cells.
func WriteCleanedCSV(records []internal.AssetRecord, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(internal.InputColumns); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.Hostname, rec.Country, rec.OperatingSystem,
			rec.Provider, rec.LifecycleStatus, rec.InstallDateString(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCleanedCSV loads the intermediate artifact back into records. The
// artifact is already normalized, so the read is a straight mapping; it still
// goes through the normalizer to keep reruns over hand-edited files safe.
func ReadCleanedCSV(path string) ([]internal.AssetRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	return NormalizeRows(rows), nil
}

// ExportXLSX dumps the current collection to a spreadsheet for the dashboard
// handoff, derived columns included.
func ExportXLSX(records []internal.AssetRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := append(append([]string{}, internal.InputColumns...),
		internal.ColRiskLevel, internal.ColSystemAgeYears)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range records {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, rec.Hostname)
		set(2, rec.Country)
		set(3, rec.OperatingSystem)
		set(4, rec.Provider)
		set(5, rec.LifecycleStatus)
		set(6, rec.InstallDateString())
		set(7, rec.RiskLevel)
		if rec.SystemAgeYears != nil {
			set(8, fmt.Sprintf("%.2f", *rec.SystemAgeYears))
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
