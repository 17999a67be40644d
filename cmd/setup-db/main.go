package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/database"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	dsnFlag := flag.String("dsn", "", "PostgreSQL DSN in URL form (defaults to POSTGRES_DSN)")
	flag.Parse()

	cfg := config.LoadConfig()
	dsn := strings.TrimSpace(*dsnFlag)
	if dsn == "" {
		dsn = cfg.PostgresDSN
	}

	// 未配置 PostgreSQL 时初始化本地 SQLite 文件
	if dsn == "" {
		setupLocal(cfg.LocalDBPath)
		return
	}

	fmt.Printf("🔗 Connecting to database: %s\n", maskPassword(dsn))

	if *down {
		if err := database.RollbackMigration(dsn); err != nil {
			log.Fatalf("❌ Rollback failed: %v", err)
		}
		fmt.Println("✅ Rolled back one migration")
	} else if err := database.RunMigrations(dsn); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	version, dirty, err := database.MigrationVersion(dsn)
	if err != nil {
		log.Fatalf("❌ Failed to read migration version: %v", err)
	}
	fmt.Printf("📄 Schema version: %d (dirty=%t)\n", version, dirty)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.NewPostgresDatabase(ctx, dsn)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	verify(ctx, db)
	fmt.Println("🎉 Database setup completed! Run 'go run ./cmd/server' to start the API.")
}

func setupLocal(path string) {
	fmt.Printf("🔗 Initializing local database: %s\n", path)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	db, err := database.NewLocalDatabase(ctx, path)
	if err != nil {
		log.Fatalf("❌ Failed to initialize local database: %v", err)
	}
	defer db.Close()

	verify(ctx, db)
	fmt.Println("🎉 Local database ready!")
}

// verify 验证各表可查询
func verify(ctx context.Context, db database.DatabaseInterface) {
	if err := db.HealthCheck(ctx); err != nil {
		log.Fatalf("❌ Health check failed: %v", err)
	}
	fmt.Println("🔍 Verifying tables...")

	tables := []string{"users", "groups", "spaces", "space_availability"}
	for _, table := range tables {
		n, err := sample(ctx, db, table)
		if err != nil {
			log.Printf("⚠️  Warning: Failed to query table %s: %v", table, err)
			continue
		}
		state := "empty"
		if n > 0 {
			state = "has records"
		}
		fmt.Printf("✅ Table %s: %s\n", table, state)
	}
}

// sample 读取表中的第一行，返回读到的行数
func sample(ctx context.Context, db database.DatabaseInterface, table string) (int, error) {
	switch table {
	case "users":
		rows, err := db.ListUsers(ctx, 0, 1)
		return len(rows), err
	case "groups":
		rows, err := db.ListGroups(ctx, 0, 1)
		return len(rows), err
	case "spaces":
		rows, err := db.ListSpaces(ctx, 0, 1)
		return len(rows), err
	default:
		rows, err := db.ListReservations(ctx, 0, 1)
		return len(rows), err
	}
}

// maskPassword 隐藏连接字符串中的密码
func maskPassword(dsn string) string {
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		return u.Redacted()
	}
	if len(dsn) > 10 {
		return dsn[:10] + "***"
	}
	return "***"
}
