package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// PostgreSQL 错误码
const (
	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
)

// PostgresDatabase PostgreSQL数据库实现
type PostgresDatabase struct {
	*sqlQueries
	db *sql.DB
}

var postgresDialect = dialect{
	name:     "postgresql",
	numbered: true,
	isDuplicate: func(err error) bool {
		var pqErr *pq.Error
		if !errors.As(err, &pqErr) {
			return false
		}
		return pqErr.Code == pqUniqueViolation || pqErr.Code == pqSerializationFailure
	},
}

// NewPostgresDatabase 创建PostgreSQL数据库实例
func NewPostgresDatabase(ctx context.Context, dsn string) (*PostgresDatabase, error) {
	// Sanitize DSN to avoid stray CR/LF from env values
	dsn = addConnectionParams(strings.TrimSpace(dsn), "connect_timeout=10")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	pg := &PostgresDatabase{
		sqlQueries: &sqlQueries{conn: db, dialect: postgresDialect},
		db:         db,
	}
	pg.tunePoolParams()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	fmt.Printf("✅ PostgreSQL connection established\n")
	return pg, nil
}

// addConnectionParams 添加连接参数到DSN（已有同名参数时不覆盖）
func addConnectionParams(dsn, params string) string {
	if params == "" || !strings.Contains(dsn, "://") {
		return dsn
	}
	key := strings.SplitN(params, "=", 2)[0]
	if strings.Contains(dsn, key+"=") {
		return dsn
	}

	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}

	return dsn + separator + params
}

// tunePoolParams 调整应用侧连接池参数
func (db *PostgresDatabase) tunePoolParams() {
	db.db.SetMaxOpenConns(20)
	db.db.SetMaxIdleConns(10)
	db.db.SetConnMaxLifetime(5 * time.Minute)
	db.db.SetConnMaxIdleTime(2 * time.Minute)
}

// InTx 以 SERIALIZABLE 隔离级别执行事务；并发冲突以 ErrDuplicate 返回
func (db *PostgresDatabase) InTx(ctx context.Context, fn func(q Queries) error) error {
	return runInTx(ctx, db.db, &sql.TxOptions{Isolation: sql.LevelSerializable}, postgresDialect, fn)
}

// HealthCheck 健康检查
func (db *PostgresDatabase) HealthCheck(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *PostgresDatabase) Stats() sql.DBStats {
	return db.db.Stats()
}

func (db *PostgresDatabase) Driver() string {
	return postgresDialect.name
}

// Close 关闭连接
func (db *PostgresDatabase) Close() error {
	return db.db.Close()
}
