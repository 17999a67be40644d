package database

import (
	"time"
)

// GetConnectionStats 获取连接池统计信息（调试端点使用）
func GetConnectionStats(db DatabaseInterface) map[string]interface{} {
	if db == nil {
		return map[string]interface{}{
			"status": "no_connection",
		}
	}

	stats := db.Stats()
	return map[string]interface{}{
		"status":               "connected",
		"driver":               db.Driver(),
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
		"sampled_at":           time.Now().Format(time.RFC3339),
	}
}
