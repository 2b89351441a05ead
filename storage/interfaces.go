package storage

import (
	"context"

	"phone-specs/models"
)

// RowReader is the interface for loading raw rows from a dataset.
type RowReader interface {
	ReadRows(ctx context.Context) ([]models.RawRow, error)
}

// PhoneWriter is the interface any storage backend for cleaned phones must satisfy.
type PhoneWriter interface {
	Write(ctx context.Context, phones []models.Phone) error
	Close() error
}

var (
	_ RowReader   = (*CSVReader)(nil)
	_ PhoneWriter = (*CSVWriter)(nil)
	_ PhoneWriter = (*SQLWriter)(nil)
)
