package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// PostgresBackend keeps each collection as a single JSONB row, for deployments
// without a writable local disk. The collection contract is the same as on files.
type PostgresBackend struct {
	DB *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{DB: db}
}

func (r *PostgresBackend) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema `%s`: %w", stmt, err)
		}
	}
	return nil
}

func (r *PostgresBackend) Read(name string) ([]byte, error) {
	var body []byte
	err := r.DB.QueryRow("SELECT body FROM collections WHERE name = $1", name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCollectionMissing, name)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (r *PostgresBackend) Write(name string, data []byte) error {
	_, err := r.DB.Exec(`
		INSERT INTO collections (name, body, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()
	`, name, string(data))
	return err
}

func (r *PostgresBackend) Init(name string) error {
	_, err := r.DB.Exec(`
		INSERT INTO collections (name, body)
		VALUES ($1, '[]')
		ON CONFLICT (name) DO NOTHING
	`, name)
	return err
}
