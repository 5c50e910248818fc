package rows

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVSource reads a delimited text file whose first record is the header.
// Comma defaults to ','.
type CSVSource struct {
	Path  string
	Comma rune
}

func (s *CSVSource) Rows() ([]Row, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if s.Comma != 0 {
		r.Comma = s.Comma
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}
	rows, err := fromTable(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return rows, nil
}
