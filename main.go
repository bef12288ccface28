package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if cfg.DBDSN == "" {
		logger.Fatal("DB_DSN is not set; a Postgres DSN is required")
	}
	if err := cfg.Validate(); err != nil {
		// Startable but degraded: token operations will answer 500.
		logger.Warn("incomplete configuration", zap.Error(err))
	}

	db, err := initDB(cfg, logger)
	if err != nil {
		logger.Fatal("init db", zap.Error(err))
	}

	// `./authapi migrate` runs migrations and exits. Useful for CI or
	// manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		logger.Info("migration completed")
		return
	}

	svc := NewAuthService(NewUserStore(db), cfg, logger)

	r := gin.Default()
	setupRoutes(r, &api{auth: svc, log: logger})

	logger.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
