// Recalculates the cached completion percentage of every paid enrollment.
//
// Usage: go run ./scripts/recalculate_progress [-config configs] [-format text|yaml]
//
// Exits 1 only when the configuration cannot be loaded or the database cannot
// be reached. Enrollments that cannot be reconciled are reported as skipped.

package main

import (
	"context"
	"course_market_backend/internal/config"
	"course_market_backend/internal/repository"
	"course_market_backend/internal/service"
	"course_market_backend/internal/util"
	"course_market_backend/pkg/database"
	"course_market_backend/pkg/logger"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	format := flag.String("format", "text", "report format: text or yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	if err := run(context.Background(), cfg, *format, os.Stdout); err != nil {
		logger.Log.Error("Reconciliation aborted", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, format string, out io.Writer) error {
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrStoreUnavailable, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, running without run lock", zap.Error(err))
		rdb = nil
	}

	reconciler := service.NewReconcileService(
		repository.NewCourseRepository(db),
		repository.NewProgressRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewReconcileRunRepository(rdb),
		cfg.Reconcile.Workers,
		cfg.Reconcile.LockTTL(),
	)

	report, err := reconciler.RunAll(ctx)
	if err != nil {
		return err
	}

	if format == "yaml" {
		return yaml.NewEncoder(out).Encode(report)
	}
	service.FormatReport(out, report)
	return nil
}
