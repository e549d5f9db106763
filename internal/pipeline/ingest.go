package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"assetpipe/internal"
	"assetpipe/internal/util"
)

// ReadInput loads raw rows from a flat tabular file, dispatching on the
// extension. The first row is the header; unknown columns are ignored and
// missing columns simply never appear in a row's map.
func ReadInput(path string) ([]internal.RawRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path)
	case ".xlsx", ".xls":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported input file: %s", path)
	}
}

func readCSV(path string) ([]internal.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = util.CleanText(header[i])
	}

	var out []internal.RawRow
	lineNo := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lineNo++
		out = append(out, rowFromCells(lineNo, header, record))
	}
	return out, nil
}

func readXLSX(path string) ([]internal.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	for i := range header {
		header[i] = util.CleanText(header[i])
	}

	out := make([]internal.RawRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		out = append(out, rowFromCells(i+2, header, cells))
	}
	return out, nil
}

func rowFromCells(lineNo int, header, cells []string) internal.RawRow {
	values := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" || i >= len(cells) {
			continue
		}
		values[name] = cells[i]
	}
	return internal.RawRow{LineNo: lineNo, Values: values}
}
