package main

import (
	"fmt"

	"authapi/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// initDB opens the Postgres connection and, unless disabled, brings
// the schema up to date. Migration failures are logged and ignored so
// a restricted DB role can still run against an existing schema.
func initDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Warn("migration warning (users)", zap.Error(err))
		}
	}
	return db, nil
}
