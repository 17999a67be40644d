package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"space-booking-backend/pkg/models"
)

var (
	// ErrNotFound 查询未命中
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反存储层唯一约束（或并发事务冲突）
	ErrDuplicate = errors.New("duplicate record")
)

// Queries 定义按实体划分的数据访问操作
//
// Get* 未命中时返回 ErrNotFound；List* 永远返回非 nil 切片；
// Delete* 删除不存在的记录不是错误。
type Queries interface {
	// 用户
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]models.User, error)
	ListUsersByGroup(ctx context.Context, groupID int64) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, email string) error

	// 分组
	GetGroup(ctx context.Context, id int64) (*models.Group, error)
	GetGroupBySpace(ctx context.Context, spaceID int64) (*models.Group, error)
	ListGroups(ctx context.Context, skip, limit int) ([]models.Group, error)
	CreateGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, id int64) error

	// 空间
	GetSpace(ctx context.Context, spaceID int64) (*models.Space, error)
	ListSpaces(ctx context.Context, skip, limit int) ([]models.Space, error)
	CreateSpace(ctx context.Context, space *models.Space) error
	DeleteSpace(ctx context.Context, spaceID int64) error

	// 预订（space_availability）
	FindReservationBySpaceDate(ctx context.Context, spaceID int64, date models.Date) (*models.Reservation, error)
	FindReservationByUserDate(ctx context.Context, userID string, date models.Date) (*models.Reservation, error)
	FindReservation(ctx context.Context, spaceID int64, userID string, date models.Date) (*models.Reservation, error)
	ListReservations(ctx context.Context, skip, limit int) ([]models.Reservation, error)
	ListReservationsByDate(ctx context.Context, date models.Date) ([]models.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID string) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	DeleteReservation(ctx context.Context, spaceID int64, userID string, date models.Date) error
}

// DatabaseInterface 定义数据库访问接口
type DatabaseInterface interface {
	Queries

	// InTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and is rolled back on error or panic.
	InTx(ctx context.Context, fn func(q Queries) error) error

	// 健康检查
	HealthCheck(ctx context.Context) error

	// 连接池统计
	Stats() sql.DBStats

	// 驱动名称（postgresql / sqlite）
	Driver() string

	// 关闭连接
	Close() error
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	PostgresDSN string
	LocalDBPath string
	AutoMigrate bool
	Debug       bool
}

// NewDatabase 根据配置选择数据库实现：配置了 POSTGRES_DSN 时使用 PostgreSQL，
// 否则使用本地 SQLite 文件
func NewDatabase(ctx context.Context, config DatabaseConfig) (DatabaseInterface, error) {
	if dsn := strings.TrimSpace(config.PostgresDSN); dsn != "" {
		if config.AutoMigrate {
			if err := RunMigrations(dsn); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		if config.Debug {
			fmt.Println("🐘 Using PostgreSQL database")
		}
		return NewPostgresDatabase(ctx, dsn)
	}

	if config.LocalDBPath == "" {
		return nil, fmt.Errorf("no database configured: set POSTGRES_DSN or LOCAL_DB_PATH")
	}
	if config.Debug {
		fmt.Printf("📁 Using local SQLite database: %s\n", config.LocalDBPath)
	}
	return NewLocalDatabase(ctx, config.LocalDBPath)
}
