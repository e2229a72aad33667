package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"ledger/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLite persists the collection in a single-file SQLite database.
// Every Write replaces all rows inside one transaction.
type SQLite struct {
	db   *sql.DB
	path string
}

func NewSQLite(ctx context.Context, dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer, no concurrent access.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, path: dbPath}, nil
}

func (s *SQLite) Location() string { return s.path }

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Read implements Persister
func (s *SQLite) Read(ctx context.Context) ([]core.Record, error) {
	var savedAt string
	err := s.db.QueryRowContext(ctx, `SELECT saved_at FROM ledger_state WHERE id = 1`).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger state: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, amount, currency, category, note, location FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var (
			r            core.Record
			date, amount string
		)
		if err := rows.Scan(&r.ID, &date, &amount, &r.Currency, &r.Category, &r.Note, &r.Location); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if r.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("%w: %s: record %s: date %q", ErrParse, s.path, r.ID, date)
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: %s: record %s: amount %q", ErrParse, s.path, r.ID, amount)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	slog.DebugContext(ctx, "Ledger read from SQLite", "path", s.path, "count", len(records), "saved_at", savedAt)
	return records, nil
}

// Write implements Persister
func (s *SQLite) Write(ctx context.Context, records []core.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (position, id, date, amount, currency, category, note, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, i, r.ID, r.Date.String(), r.Amount.String(),
			r.Currency, r.Category, r.Note, r.Location); err != nil {
			return fmt.Errorf("insert record %s: %w", r.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ledger_state (id, saved_at, record_count) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, record_count = excluded.record_count`,
		time.Now().UTC().Format(time.RFC3339), len(records))
	if err != nil {
		return fmt.Errorf("update ledger state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Ledger written to SQLite", "path", s.path, "count", len(records))
	return nil
}
