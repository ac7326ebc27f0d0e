// Package extract pulls column headers out of tabular files.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// HeaderRow returns the first non-empty row of a tabular file as the list of
// column headers. ext selects the format and should include the leading dot;
// ".csv" and ".tsv" are parsed with encoding/csv, ".xlsx" with excelize
// (first sheet). Cell values are whitespace-trimmed; trailing empty cells are
// dropped.
func HeaderRow(content []byte, ext string) ([]string, error) {
	switch strings.ToLower(ext) {
	case ".csv", "":
		return headerRowCSV(content, ',')
	case ".tsv":
		return headerRowCSV(content, '\t')
	case ".xlsx":
		return headerRowExcel(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (supported: .csv, .tsv, .xlsx)", ext)
	}
}

func headerRowCSV(content []byte, comma rune) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = comma
	r.FieldsPerRecord = -1
	for {
		record, err := r.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("no header row found")
		}
		if err != nil {
			return nil, fmt.Errorf("parse CSV: %w", err)
		}
		if headers := trimRow(record); len(headers) > 0 {
			return headers, nil
		}
	}
}

func headerRowExcel(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	for _, row := range rows {
		if headers := trimRow(row); len(headers) > 0 {
			return headers, nil
		}
	}
	return nil, fmt.Errorf("no header row found")
}

// trimRow trims cells and drops trailing empties. A row whose every cell is
// empty trims to nil.
func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	if end == 0 {
		return nil
	}
	headers := make([]string, end)
	for i := 0; i < end; i++ {
		headers[i] = strings.TrimSpace(row[i])
	}
	return headers
}
