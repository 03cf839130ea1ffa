package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"starpets-hunter/models"
)

// PostgresWriter appends listings to a PostgreSQL price_history table.
// Inserts only — the table is an audit trail and existing rows are never
// updated or deleted.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema
// migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS price_history (
			id         SERIAL PRIMARY KEY,
			observed_at TIMESTAMPTZ   NOT NULL,
			pet_name   TEXT          NOT NULL,
			price_eur  NUMERIC(10,2) NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_price_history_name ON price_history(pet_name);
		CREATE INDEX IF NOT EXISTS idx_price_history_observed_at ON price_history(observed_at);
	`)
	return err
}

// Append batch-inserts the listings at the end of the history table.
func (pw *PostgresWriter) Append(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.insertBatch(listings[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(batch []*models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*3)

	for idx, l := range batch {
		base := idx * 3
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3))
		valueArgs = append(valueArgs, l.Timestamp.UTC(), l.Name, l.Price)
	}

	query := fmt.Sprintf(`
		INSERT INTO price_history (observed_at, pet_name, price_eur)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	if err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// CountRows returns the number of history rows — used for sanity logging.
func (pw *PostgresWriter) CountRows() (int64, error) {
	var n int64
	if err := pw.db.QueryRow(`SELECT COUNT(*) FROM price_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count rows: %w", err)
	}
	return n, nil
}
