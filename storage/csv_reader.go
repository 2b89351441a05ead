package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"phone-specs/models"
	"phone-specs/utils"
)

const utf8BOM = "\uFEFF"

// CSVReader loads the raw phone dataset from a delimited file.
type CSVReader struct {
	path      string
	delimiter rune
	logger    *utils.Logger
}

// NewCSVReader creates a reader for the comma-delimited file at path.
func NewCSVReader(path string, logger *utils.Logger) *CSVReader {
	return &CSVReader{path: path, delimiter: ',', logger: logger}
}

// ReadRows opens the file and returns one RawRow per data line.
func (r *CSVReader) ReadRows(ctx context.Context) ([]models.RawRow, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("csv: file not found: %s", r.path)
		}
		return nil, fmt.Errorf("csv: open %q: %w", r.path, err)
	}
	defer f.Close()

	return r.Parse(ctx, f)
}

// Parse reads a header line followed by data lines from src. Rows whose
// column count differs from the header are zipped up to the shorter length.
func (r *CSVReader) Parse(ctx context.Context, src io.Reader) ([]models.RawRow, error) {
	cr := csv.NewReader(src)
	cr.Comma = r.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []models.RawRow
	mismatched := 0
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}

		if len(values) != len(headers) {
			mismatched++
			r.logger.Debug("[csv] Line %d has %d values for %d columns", line, len(values), len(headers))
		}

		n := min(len(values), len(headers))
		row := make(models.RawRow, n)
		for i := 0; i < n; i++ {
			row[headers[i]] = strings.TrimSpace(strings.ReplaceAll(values[i], `"`, ""))
		}
		rows = append(rows, row)
	}

	if mismatched > 0 {
		r.logger.Warn("[csv] %d of %d rows did not match the header width", mismatched, len(rows))
	}
	r.logger.Info("[csv] Loaded %d rows from %d columns", len(rows), len(headers))
	return rows, nil
}
