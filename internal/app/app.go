package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-fieldtime/internal/company"
	"go-fieldtime/internal/config"
	"go-fieldtime/internal/invoice"
	"go-fieldtime/internal/job"
	"go-fieldtime/internal/messaging/kafka"
	"go-fieldtime/internal/shared/connection"
	"go-fieldtime/internal/shared/counter"
	"go-fieldtime/internal/timeentry"
)

// BuildApp connects the infrastructure, migrates the schema and mounts every
// module on router. The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config, logger *zap.Logger) (func(), error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if err := migrate(db); err != nil {
		closeDB(db, logger)
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.Database.MaxRetries)
	if err != nil {
		closeDB(db, logger)
		return nil, err
	}
	logger.Info("redis connection established")

	if err := registerModules(router, cfg, db, rdb, logger); err != nil {
		_ = rdb.Close()
		closeDB(db, logger)
		return nil, err
	}

	return func() {
		_ = rdb.Close()
		closeDB(db, logger)
	}, nil
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	return connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		cfg.Database.MaxRetries,
	)
}

func migrate(db *gorm.DB) error {
	steps := []struct {
		name string
		run  func(*gorm.DB) error
	}{
		{"company", company.Migrate},
		{"job", job.Migrate},
		{"timeentry", timeentry.Migrate},
		{"invoice", invoice.Migrate},
		{"counter", counter.Migrate},
		{"outbox", kafka.Migrate},
	}
	for _, step := range steps {
		if err := step.run(db); err != nil {
			return fmt.Errorf("migrate %s: %w", step.name, err)
		}
	}
	return nil
}

func closeDB(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
}
