package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"falcon-scn/core/utils"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type sqliteMedium struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite-backed medium at path and
// applies the embedded schema migrations.
func OpenSQLite(ctx context.Context, path string, logger *utils.Logger) (Medium, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		if logger != nil {
			logger.Errorf("storage open failed: %v", err)
		}
		return nil, err
	}
	// The medium is a single-writer store; one connection avoids SQLITE_BUSY
	// between the debounce and interval flush paths.
	db.SetMaxOpenConns(1)
	if err := applyMigrations(ctx, db, logger); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteMedium{db: db}, nil
}

func applyMigrations(ctx context.Context, db *sql.DB, logger *utils.Logger) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("storage migrations applied")
	}
	return nil
}

func (m *sqliteMedium) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := m.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (m *sqliteMedium) Set(ctx context.Context, key, value string) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO kv_store(key, value, updated_at) VALUES(?,?,?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, time.Now().UTC())
	return err
}

func (m *sqliteMedium) Delete(ctx context.Context, key string) error {
	_, err := m.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key=?`, key)
	return err
}

func (m *sqliteMedium) UsedBytes(ctx context.Context) (int64, error) {
	var used sql.NullInt64
	err := m.db.QueryRowContext(ctx, `SELECT SUM(LENGTH(value)) FROM kv_store`).Scan(&used)
	if err != nil {
		return 0, err
	}
	return used.Int64, nil
}

func (m *sqliteMedium) Close() error {
	return m.db.Close()
}
