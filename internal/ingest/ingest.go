// Package ingest reads touchpoint logs from CSV and XLSX files.
//
// Both formats carry three columns in order: user_id, channel_id, converted.
// Rows must already be in chronological order per user; they are never
// re-sorted.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/katalvlaran/touchpath/touchpoint"
)

// ErrUnsupportedFormat is returned for a file extension other than .csv or .xlsx.
var ErrUnsupportedFormat = errors.New("ingest: unsupported file format")

// Options controls how a file is read.
type Options struct {
	// Sheet selects the XLSX worksheet; empty means the first one.
	Sheet string
	// Header drops the first row.
	Header bool
}

// ReadFile reads path according to its extension.
func ReadFile(path string, opts Options) (*touchpoint.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ReadCSV(f, opts)
	case ".xlsx":
		return ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrUnsupportedFormat)
	}
}

// ReadCSV reads comma-separated records. Lines starting with '#' are skipped.
func ReadCSV(r io.Reader, opts Options) (*touchpoint.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column count is checked by touchpoint
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: csv: %w: %w", touchpoint.ErrInputFormat, err)
	}

	return build(records, opts)
}

// ReadXLSX reads the selected worksheet of a workbook. Blank rows are skipped.
func ReadXLSX(r io.Reader, opts Options) (*touchpoint.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("ingest: xlsx: %w: %w", touchpoint.ErrInputFormat, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("ingest: xlsx: no worksheet: %w", touchpoint.ErrInputFormat)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: xlsx sheet %q: %w: %w", sheet, touchpoint.ErrInputFormat, err)
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		if blank(row) {
			continue
		}
		records = append(records, row)
	}

	return build(records, opts)
}

func build(records [][]string, opts Options) (*touchpoint.Table, error) {
	if opts.Header && len(records) > 0 {
		records = records[1:]
	}
	t, err := touchpoint.FromRecords(records)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}

	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
