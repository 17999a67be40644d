package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAllowedOrigins 前端应用的默认来源（Expo 开发服务器与本地 API）
var DefaultAllowedOrigins = []string{
	"http://localhost:19000",
	"http://localhost:19006",
	"http://localhost:8000",
	"http://192.168.1.66:19006",
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config 应用配置结构
type Config struct {
	// 环境配置
	Environment string
	Port        string

	// 数据库配置
	PostgresDSN string
	LocalDBPath string
	AutoMigrate bool

	// 认证配置（默认关闭）
	RequireAuth bool
	JWTSecret   string

	// CORS配置
	AllowedOrigins []string

	// HTTP配置
	RequestTimeout time.Duration
	MaxBodyBytes   int64

	// 调试配置
	Debug bool
}

// LoadConfig 加载配置
func LoadConfig() *Config {
	// 根据环境加载对应的 .env 文件；已存在的环境变量优先
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	switch env {
	case "production":
		loadEnvFile(".env.production")
	default:
		loadEnvFile(".env.local")
	}
	loadEnvFile(".env")

	config := &Config{
		Environment:    getEnvWithDefault("ENVIRONMENT", "development"),
		Port:           getEnvWithDefault("PORT", "8000"),
		LocalDBPath:    getEnvWithDefault("LOCAL_DB_PATH", "./data/booking.db"),
		AutoMigrate:    getEnvBool("AUTO_MIGRATE", true),
		RequireAuth:    getEnvBool("REQUIRE_AUTH", false),
		JWTSecret:      getEnvWithDefault("JWT_SECRET", defaultJWTSecret),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 25*time.Second),
		MaxBodyBytes:   getEnvInt64("MAX_BODY_BYTES", 1<<20),
		Debug:          getEnvBool("DEBUG", false),
	}

	// Trim whitespace to avoid trailing spaces/newlines from env sources
	config.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))

	config.AllowedOrigins = parseOrigins(os.Getenv("ALLOWED_ORIGINS"))

	if config.Environment == "production" {
		// 生产环境关闭调试
		config.Debug = false
	}

	return config
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.RequireAuth && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set when REQUIRE_AUTH is enabled")
	}

	if c.IsProduction() && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN must be set in production")
	}

	if c.PostgresDSN == "" && c.LocalDBPath == "" {
		return fmt.Errorf("数据库配置不完整：请配置 POSTGRES_DSN 或 LOCAL_DB_PATH")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return nil
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// 辅助函数

// parseOrigins 解析逗号分隔的来源列表，空值时使用默认列表
func parseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		origins := make([]string, len(DefaultAllowedOrigins))
		copy(origins, DefaultAllowedOrigins)
		return origins
	}
	if raw == "*" {
		return []string{"*"}
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnvWithDefault 获取环境变量，如果不存在则使用默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool 获取布尔类型的环境变量
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// loadEnvFile 加载 .env 文件到环境变量（文件不存在时静默返回，不覆盖已有变量）
func loadEnvFile(filename string) {
	if _, err := os.Stat(filename); err != nil {
		return
	}
	if err := godotenv.Load(filename); err != nil {
		fmt.Printf("⚠️  Failed to load %s: %v\n", filename, err)
	}
}
