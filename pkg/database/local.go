package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// LocalDatabase 本地 SQLite 数据库实现（开发环境与测试使用）
type LocalDatabase struct {
	*sqlQueries
	db   *sql.DB
	path string
}

var sqliteDialect = dialect{
	name: "sqlite",
	isDuplicate: func(err error) bool {
		var sqliteErr *sqlite.Error
		if !errors.As(err, &sqliteErr) {
			return false
		}
		// primary result code; extended codes carry the constraint kind in the high bits
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	},
}

// NewLocalDatabase 创建本地数据库实例并建表
func NewLocalDatabase(ctx context.Context, path string) (*LocalDatabase, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite serialises writers; one connection keeps transactions and pragmas on the same handle
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA busy_timeout=5000;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := migrateLocal(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	return &LocalDatabase{
		sqlQueries: &sqlQueries{conn: db, dialect: sqliteDialect},
		db:         db,
		path:       path,
	}, nil
}

// migrateLocal mirrors migrations/000001_init.up.sql in SQLite types.
func migrateLocal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS spaces (
			space_id INTEGER PRIMARY KEY,
			disabled INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS "groups" (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			space_id INTEGER NOT NULL UNIQUE
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			group_id INTEGER NOT NULL,
			day TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_group_id ON users(group_id);`,
		`CREATE TABLE IF NOT EXISTS space_availability (
			space_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			PRIMARY KEY (space_id, date),
			UNIQUE (user_id, date)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_space_availability_date ON space_availability(date);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (db *LocalDatabase) InTx(ctx context.Context, fn func(q Queries) error) error {
	return runInTx(ctx, db.db, nil, sqliteDialect, fn)
}

// HealthCheck 健康检查
func (db *LocalDatabase) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(db.path); err != nil {
		return fmt.Errorf("database file unavailable: %w", err)
	}
	return db.db.PingContext(ctx)
}

func (db *LocalDatabase) Stats() sql.DBStats {
	return db.db.Stats()
}

func (db *LocalDatabase) Driver() string {
	return sqliteDialect.name
}

// Close 关闭连接
func (db *LocalDatabase) Close() error {
	return db.db.Close()
}
