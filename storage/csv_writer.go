package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"phone-specs/models"
)

var cleanHeader = []string{
	"manufacturer", "model", "announced_year", "availability_status",
	"body_dimensions", "body_weight_grams", "sim_type", "display_type",
	"display_size_inches", "display_resolution", "sensor_features", "platform_os",
}

// CSVWriter exports cleaned phones to a CSV file, leaving missing values empty.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(cleanHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per phone.
func (c *CSVWriter) Write(ctx context.Context, phones []models.Phone) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range phones {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.writer.Write(phoneRow(p)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func phoneRow(p models.Phone) []string {
	return []string{
		text(p.Manufacturer),
		text(p.Model),
		integer(p.AnnouncedYear),
		text(p.AvailabilityStatus),
		text(p.BodyDimensions),
		decimal(p.BodyWeightGrams),
		text(p.SimType),
		text(p.DisplayType),
		decimal(p.DisplaySizeInches),
		text(p.DisplayResolution),
		text(p.SensorFeatures),
		text(p.PlatformOS),
	}
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func integer(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func decimal(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
