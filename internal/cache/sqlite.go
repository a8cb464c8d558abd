package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteFileName is the database file created inside the configured directory.
const SQLiteFileName = "proxyip.db"

// SQLiteStore persists the ports set and proxy-IP list in a single SQLite file.
//
// The pool is limited to one connection, so concurrent classifier calls are
// serialized by database/sql rather than by SQLite's own locking.
type SQLiteStore struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

var (
	_ Store      = (*SQLiteStore)(nil)
	_ PortLister = (*SQLiteStore)(nil)
)

// SQLiteOptions configures SQLiteStore behavior.
type SQLiteOptions struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultSQLiteOptions returns the default options.
func DefaultSQLiteOptions() SQLiteOptions {
	return SQLiteOptions{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// OpenSQLite opens or creates the store in dbDir.
func OpenSQLite(ctx context.Context, dbDir string, opts SQLiteOptions) (*SQLiteStore, error) {
	dbPath := filepath.Join(dbDir, SQLiteFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, unavailable("open", fmt.Errorf("database not found at %s", dbPath))
		} else if err != nil {
			return nil, unavailable("open", fmt.Errorf("failed to check database path: %w", err))
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, unavailable("open", fmt.Errorf("failed to create database directory: %w", err))
	}

	// mode=rw refuses to create a new file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, unavailable("open", fmt.Errorf("failed to open database: %w", err))
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, unavailable("open", fmt.Errorf("failed to enable WAL mode: %w", err))
		}
	}

	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, unavailable("open", fmt.Errorf("failed to create tables: %w", err))
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// createTables creates the schema if it doesn't exist.
func (s *SQLiteStore) createTables(ctx context.Context) error {
	schema := `
	-- Advertised ports set
	CREATE TABLE IF NOT EXISTS ports (
		port INTEGER PRIMARY KEY
	);

	-- Append-only list of confirmed proxy IPs
	CREATE TABLE IF NOT EXISTS proxy_ips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ip TEXT NOT NULL,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ClearPorts removes every row from the ports set.
func (s *SQLiteStore) ClearPorts(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM ports`)
	return unavailable("clear ports", err)
}

// AddPort inserts p into the ports set, ignoring duplicates.
func (s *SQLiteStore) AddPort(ctx context.Context, p int) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO ports (port) VALUES (?)`, p)
	return unavailable("add port", err)
}

// ListPorts returns the ports set in ascending order.
func (s *SQLiteStore) ListPorts(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT port FROM ports ORDER BY port`)
	if err != nil {
		return nil, unavailable("list ports", err)
	}
	defer rows.Close()

	out := make([]int, 0)
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, unavailable("list ports", err)
		}
		out = append(out, p)
	}

	return out, unavailable("list ports", rows.Err())
}

// ListProxyIPs returns the full proxy-IP list in append order.
func (s *SQLiteStore) ListProxyIPs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ip FROM proxy_ips ORDER BY id`)
	if err != nil {
		return nil, unavailable("list proxy ips", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var ip string
		if err := rows.Scan(&ip); err != nil {
			return nil, unavailable("list proxy ips", err)
		}
		out = append(out, ip)
	}

	return out, unavailable("list proxy ips", rows.Err())
}

// AppendProxyIP appends ip to the proxy-IP list.
func (s *SQLiteStore) AppendProxyIP(ctx context.Context, ip string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO proxy_ips (ip) VALUES (?)`, ip)
	return unavailable("append proxy ip", err)
}
