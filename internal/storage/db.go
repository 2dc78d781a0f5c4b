package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type dialect string

const (
	dialectSQLite   dialect = "sqlite"
	dialectPostgres dialect = "postgres"
	dialectMySQL    dialect = "mysql"
)

// DB wraps a SQL connection together with the dialect its queries use.
type DB struct {
	conn    *sql.DB
	dialect dialect
}

// New opens (and migrates) a SQL database. For sqlite, dsn is a file path
// and its directory is created if missing.
func New(driver, dsn string) (*DB, error) {
	d := dialect(driver)
	var conn *sql.DB
	var err error

	switch d {
	case dialectSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		conn, err = sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite only supports one writer
		conn.SetMaxOpenConns(1)
	case dialectPostgres, dialectMySQL:
		conn, err = sql.Open(driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", driver, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db := &DB{conn: conn, dialect: d}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// bind rewrites ? placeholders to $n for postgres.
func (db *DB) bind(query string) string {
	if db.dialect != dialectPostgres {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

func (db *DB) migrate() error {
	var migrations []string
	switch db.dialect {
	case dialectSQLite:
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS canvas_slots (
				slot_key TEXT PRIMARY KEY,
				payload TEXT NOT NULL DEFAULT '',
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		}
	case dialectPostgres:
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS canvas_slots (
				slot_key VARCHAR(255) PRIMARY KEY,
				payload TEXT NOT NULL DEFAULT '',
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
		}
	case dialectMySQL:
		// MySQL reserves "key" and caps TEXT at 64KB.
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS canvas_slots (
				slot_key VARCHAR(255) NOT NULL PRIMARY KEY,
				payload MEDIUMTEXT NOT NULL,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			) CHARACTER SET utf8mb4`,
		}
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}
	return nil
}
