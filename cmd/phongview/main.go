// Package main is the entry point for the Phong scene viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/phongview/internal/config"
	"github.com/Faultbox/phongview/internal/logger"
	"github.com/Faultbox/phongview/internal/viewer"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error("viewer failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("viewer closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	logger.Info("=== PhongView ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := viewer.NewApp(cfg, logger.Named("viewer"))
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run()
}
