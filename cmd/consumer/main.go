package main

import (
	"go.uber.org/zap"

	"go-fieldtime/internal/app"
	"go-fieldtime/internal/config"
	"go-fieldtime/internal/shared/apperror"
	"go-fieldtime/internal/shared/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(logger.Options{
		Development: !cfg.IsProduction(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	apperror.Init()

	if err := app.RunConsumer(cfg, log); err != nil {
		log.Fatal("run consumer failed", zap.Error(err))
	}
}
