package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/elhem/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "modernc.org/sqlite"
)

// SQLStore keeps one row per collection in a `collections` table. The
// payload column holds the same indented JSON the file store writes.
type SQLStore struct {
	db     *sql.DB
	driver Driver
	load   string
	save   string
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// NewSQLite opens (creating if needed) a SQLite database at path.
func NewSQLite(path string) (*SQLStore, error) {
	if path == "" {
		path = filepath.Join("data", "elhem.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{
		db:     db,
		driver: DriverSQLite,
		load:   `SELECT payload FROM collections WHERE name = ?`,
		save: `INSERT INTO collections (name, payload, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
	}, nil
}

// NewPostgres connects to dsn and ensures the collections table exists.
func NewPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{
		db:     db,
		driver: DriverPostgres,
		load:   `SELECT payload FROM collections WHERE name = $1`,
		save: `INSERT INTO collections (name, payload, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
	}, nil
}

func (s *SQLStore) Load(ctx context.Context, c Collection) ([]models.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.load, string(c)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}
	records, err := Decode([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c, err)
	}
	return records, nil
}

func (s *SQLStore) Save(ctx context.Context, c Collection, records []models.Record) error {
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("save %s: %w", c, err)
	}
	if _, err := s.db.ExecContext(ctx, s.save, string(c), string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert %s: %w", c, err)
	}
	return nil
}

// SetRaw stores payload verbatim, bypassing encoding.
func (s *SQLStore) SetRaw(ctx context.Context, c Collection, payload string) error {
	_, err := s.db.ExecContext(ctx, s.save, string(c), payload, time.Now().UTC())
	return err
}

// Ping checks the database connection is alive.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Driver() Driver { return s.driver }

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
