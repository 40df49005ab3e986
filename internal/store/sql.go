package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
	DriverRedis    Driver = "redis"
	DriverMongo    Driver = "mongo"
	DriverMemory   Driver = "memory"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS kv (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS kv (
    name TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at BIGINT NOT NULL
);
`

const schemaMySQL = `
CREATE TABLE IF NOT EXISTS kv (
    name VARCHAR(191) PRIMARY KEY,
    value LONGTEXT NOT NULL,
    updated_at BIGINT NOT NULL
)
`

type sqlDialect struct {
	driverName string
	defaultDSN string
	schema     string
	get        string
	upsert     string
	delete     string
}

var dialects = map[Driver]sqlDialect{
	DriverSQLite: {
		driverName: "sqlite",
		defaultDSN: "file:quizcore.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)",
		schema:     schemaSQLite,
		get:        "SELECT value FROM kv WHERE name = ?",
		upsert: `INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		delete: "DELETE FROM kv WHERE name = ?",
	},
	DriverPostgres: {
		driverName: "pgx",
		defaultDSN: "postgres://localhost:5432/quizcore?sslmode=disable",
		schema:     schemaPostgres,
		get:        "SELECT value FROM kv WHERE name = $1",
		upsert: `INSERT INTO kv (name, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		delete: "DELETE FROM kv WHERE name = $1",
	},
	DriverMySQL: {
		driverName: "mysql",
		defaultDSN: "root@tcp(localhost:3306)/quizcore",
		schema:     schemaMySQL,
		get:        "SELECT value FROM kv WHERE name = ?",
		upsert: `INSERT INTO kv (name, value, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`,
		delete: "DELETE FROM kv WHERE name = ?",
	},
}

// SQLStore keeps every key as one row of the kv table.
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
}

// OpenSQL opens the database for driver, pings it and ensures the kv
// table exists. An empty dsn selects the driver's local default.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}
	if dsn == "" {
		dsn = dialect.defaultDSN
	}

	if driver == DriverMySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	}

	db, err := sql.Open(dialect.driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, dialect.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLStore{db: db, dialect: dialect}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, time.Now().Unix())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.delete, key)
	return err
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
