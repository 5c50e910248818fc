package rows

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one worksheet of an Excel workbook. Sheet is a sheet
// name or a zero-based index; empty selects the first sheet.
type XLSXSource struct {
	Path  string
	Sheet string
}

func (s *XLSXSource) Rows() ([]Row, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet, err := resolveSheet(f.GetSheetList(), s.Sheet)
	if err != nil {
		return nil, err
	}

	table, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	rows, err := fromTable(table)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// resolveSheet maps a selector to a sheet name. An exact name match wins
// over an index so a sheet literally named "0" stays reachable.
func resolveSheet(sheets []string, selector string) (string, error) {
	selector = strings.TrimSpace(selector)
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	if selector == "" {
		return sheets[0], nil
	}
	for _, name := range sheets {
		if name == selector {
			return name, nil
		}
	}
	if idx, err := strconv.Atoi(selector); err == nil {
		if idx >= 0 && idx < len(sheets) {
			return sheets[idx], nil
		}
		return "", fmt.Errorf("%w: index %d out of range (%d sheets)", ErrSheetNotFound, idx, len(sheets))
	}
	return "", fmt.Errorf("%w: %q", ErrSheetNotFound, selector)
}
