// Package bootstrap handles application initialization and lifecycle management
// for the negative-keywords service.
package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/profiling"
)

// ServiceName identifies the service in logs, health responses and profiles.
const ServiceName = "negative-keywords"

// Version is overridden at build time with -ldflags "-X ...bootstrap.Version=...".
var Version = "dev"

// Start loads configuration from configPath and serves HTTP until ctx is
// cancelled or the process is signalled.
func Start(ctx context.Context, configPath string) error {
	// Phase 1: Load config and create logger
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Profiling (both opt-in via environment)
	profiling.StartPprofServer(log)
	profiler, err := profiling.StartPyroscope(ServiceName, Version)
	if err != nil {
		log.Warn("Continuous profiling disabled", infralogger.Error(err))
	}
	defer func() { _ = profiler.Stop() }()

	// Phase 3: Event publisher (optional)
	publisher, closeRedis := SetupEventPublisher(cfg, log)
	defer closeRedis()

	// Phase 4: Scorer and metrics
	metrics := SetupMetrics(cfg)
	scorer := SetupScorer(cfg, log, metrics, publisher)

	// Phase 5: HTTP server
	server := SetupHTTPServer(cfg, scorer, metrics, log)

	if runErr := server.Run(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}
