// Package rows reads tabular reaction records from spreadsheets.
package rows

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrNoHeader          = errors.New("table has no header row")
)

// Row maps a header name to the raw cell text of one record. Absent keys
// and blank cells are both missing values.
type Row map[string]string

// Value returns the trimmed cell text for column, or "" when missing.
func (r Row) Value(column string) string {
	return strings.TrimSpace(r[column])
}

// Source supplies the full, ordered set of rows for a conversion run.
type Source interface {
	Rows() ([]Row, error)
}

// Slice is an in-memory Source.
type Slice []Row

func (s Slice) Rows() ([]Row, error) {
	return []Row(s), nil
}

// Open picks a Source for path by extension. sheet selects a worksheet for
// spreadsheet formats and is ignored for csv.
func Open(path, sheet string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return &XLSXSource{Path: path, Sheet: sheet}, nil
	case ".csv":
		return &CSVSource{Path: path}, nil
	case ".tsv":
		return &CSVSource{Path: path, Comma: '\t'}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// fromTable converts a header row plus data rows into Rows. Header names
// are trimmed; blank headers are skipped and the first of a repeated header
// wins. Rows whose cells are all blank are dropped.
func fromTable(table [][]string) ([]Row, error) {
	if len(table) == 0 {
		return nil, ErrNoHeader
	}

	type column struct {
		index int
		name  string
	}
	var columns []column
	seen := make(map[string]bool)
	for i, h := range table[0] {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		columns = append(columns, column{index: i, name: name})
	}
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}

	out := make([]Row, 0, len(table)-1)
	for _, cells := range table[1:] {
		row := make(Row, len(columns))
		for _, c := range columns {
			if c.index >= len(cells) {
				continue
			}
			if strings.TrimSpace(cells[c.index]) == "" {
				continue
			}
			row[c.name] = cells[c.index]
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
