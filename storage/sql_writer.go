package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"phone-specs/models"
	"phone-specs/utils"
)

const phonesTable = "phones"

var phoneColumns = []string{
	"manufacturer", "model", "announced_year", "availability_status",
	"body_dimensions", "body_weight_grams", "sim_type", "display_type",
	"display_size_inches", "display_resolution", "sensor_features", "platform_os",
}

var migrations = map[string]string{
	"postgres": `
		CREATE TABLE IF NOT EXISTS phones (
			id                  SERIAL PRIMARY KEY,
			batch_id            UUID    NOT NULL,
			row_num             INTEGER NOT NULL,
			manufacturer        TEXT,
			model               TEXT,
			announced_year      INTEGER,
			availability_status TEXT,
			body_dimensions     TEXT,
			body_weight_grams   DOUBLE PRECISION,
			sim_type            TEXT,
			display_type        TEXT,
			display_size_inches DOUBLE PRECISION,
			display_resolution  TEXT,
			sensor_features     TEXT,
			platform_os         TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_phones_manufacturer ON phones(manufacturer);
		CREATE INDEX IF NOT EXISTS idx_phones_announced    ON phones(announced_year);
	`,
	"sqlite": `
		CREATE TABLE IF NOT EXISTS phones (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id            TEXT    NOT NULL,
			row_num             INTEGER NOT NULL,
			manufacturer        TEXT,
			model               TEXT,
			announced_year      INTEGER,
			availability_status TEXT,
			body_dimensions     TEXT,
			body_weight_grams   REAL,
			sim_type            TEXT,
			display_type        TEXT,
			display_size_inches REAL,
			display_resolution  TEXT,
			sensor_features     TEXT,
			platform_os         TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_phones_manufacturer ON phones(manufacturer);
		CREATE INDEX IF NOT EXISTS idx_phones_announced    ON phones(announced_year);
	`,
}

// SQLWriter persists cleaned phones to PostgreSQL or SQLite.
type SQLWriter struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	batchID string
}

// NewSQLWriter opens a connection for driver ("postgres" or "sqlite"), waits
// for it to answer, runs the schema migration and returns a ready writer.
func NewSQLWriter(ctx context.Context, driver, dsn string, retry *utils.RetryConfig) (*SQLWriter, error) {
	migration, ok := migrations[driver]
	if !ok {
		return nil, fmt.Errorf("sql: unsupported driver %q", driver)
	}

	if driver == "sqlite" && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create db dir: %w", err)
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	if driver == "sqlite" {
		// each new connection to :memory: would get its own empty database
		db.SetMaxOpenConns(1)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1}
	}
	if err := retry.Do(ctx, driver+" ping", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, migration); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", driver, err)
	}

	return &SQLWriter{db: db, builder: statementBuilder(driver)}, nil
}

func statementBuilder(driver string) sq.StatementBuilderType {
	if driver == "postgres" {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// BatchID returns the id stamped on the rows of the last successful Write.
func (w *SQLWriter) BatchID() string {
	return w.batchID
}

// Write replaces the table contents with phones in one transaction. An empty
// slice leaves the table empty.
func (w *SQLWriter) Write(ctx context.Context, phones []models.Phone) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sql: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+phonesTable); err != nil {
		return fmt.Errorf("sql: clear: %w", err)
	}

	batchID := uuid.New().String()
	const batchSize = 50
	for i := 0; i < len(phones); i += batchSize {
		end := min(i+batchSize, len(phones))
		query, args, err := w.insertQuery(batchID, i, phones[i:end])
		if err != nil {
			return fmt.Errorf("sql: build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("sql: insert batch at row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sql: commit: %w", err)
	}
	w.batchID = batchID
	return nil
}

func (w *SQLWriter) insertQuery(batchID string, offset int, batch []models.Phone) (string, []any, error) {
	cols := append([]string{"batch_id", "row_num"}, phoneColumns...)
	ins := w.builder.Insert(phonesTable).Columns(cols...)
	for i, p := range batch {
		ins = ins.Values(
			batchID, offset+i,
			nullable(p.Manufacturer), nullable(p.Model), nullable(p.AnnouncedYear),
			nullable(p.AvailabilityStatus), nullable(p.BodyDimensions), nullable(p.BodyWeightGrams),
			nullable(p.SimType), nullable(p.DisplayType), nullable(p.DisplaySizeInches),
			nullable(p.DisplayResolution), nullable(p.SensorFeatures), nullable(p.PlatformOS),
		)
	}
	return ins.ToSql()
}

// FetchAll reads the stored phones back in their original order.
func (w *SQLWriter) FetchAll(ctx context.Context) ([]models.Phone, error) {
	query, args, err := w.builder.Select(phoneColumns...).From(phonesTable).OrderBy("row_num").ToSql()
	if err != nil {
		return nil, fmt.Errorf("sql: build select: %w", err)
	}

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sql: fetch all: %w", err)
	}
	defer rows.Close()

	var phones []models.Phone
	for rows.Next() {
		var p models.Phone
		if err := rows.Scan(
			&p.Manufacturer, &p.Model, &p.AnnouncedYear, &p.AvailabilityStatus,
			&p.BodyDimensions, &p.BodyWeightGrams, &p.SimType, &p.DisplayType,
			&p.DisplaySizeInches, &p.DisplayResolution, &p.SensorFeatures, &p.PlatformOS,
		); err != nil {
			return nil, fmt.Errorf("sql: scan row: %w", err)
		}
		phones = append(phones, p)
	}
	return phones, rows.Err()
}

func (w *SQLWriter) Close() error {
	return w.db.Close()
}

// nullable turns a missing value into SQL NULL.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
