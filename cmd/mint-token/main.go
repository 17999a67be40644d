package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"space-booking-backend/pkg/config"
	"space-booking-backend/pkg/utils"
)

// mint-token 签发用于写接口的访问令牌（REQUIRE_AUTH=true 时需要）
func main() {
	subject := flag.String("subject", "", "token subject, e.g. the operator's email")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if strings.TrimSpace(*subject) == "" {
		fmt.Fprintln(os.Stderr, "usage: mint-token -subject <email> [-ttl 24h]")
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	if cfg.RequireAuth {
		if err := cfg.Validate(); err != nil {
			log.Fatalf("❌ Configuration error: %v", err)
		}
	}

	token, expiresAt, err := utils.NewJWTService(cfg.JWTSecret).GenerateAccessToken(*subject, *ttl)
	if err != nil {
		log.Fatalf("❌ Failed to sign token: %v", err)
	}

	fmt.Fprintf(os.Stderr, "🔑 Token for %s expires %s\n", *subject, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
