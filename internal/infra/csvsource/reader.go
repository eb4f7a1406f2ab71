// Package csvsource reads issue rows from CSV files.
package csvsource

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/runoshun/tissue/internal/domain"
)

// Ensure Reader implements domain.RecordSource interface.
var _ domain.RecordSource = (*Reader)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader reads CSV files with a header row.
type Reader struct{}

// NewReader creates a new CSV reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read returns the header row and the data rows of the file at path.
// Rows may have a different number of fields than the header.
func (r *Reader) Read(path string) ([]string, [][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrEmptyFile, path)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrEmptyFile, path)
	}

	return records[0], records[1:], nil
}
