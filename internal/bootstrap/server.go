package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	infragin "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/api"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/config"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/events"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/handlers"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/service"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/telemetry"
)

// SetupMetrics returns nil when metrics are disabled.
func SetupMetrics(cfg *config.Config) *telemetry.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return telemetry.New(reg)
}

// SetupScorer builds the scorer with the configured threshold bounds.
func SetupScorer(
	cfg *config.Config,
	log infralogger.Logger,
	metrics *telemetry.Metrics,
	publisher *events.Publisher,
) *service.Scorer {
	return service.NewScorer(log,
		service.WithBounds(service.Bounds{Min: cfg.Scoring.MinThreshold, Max: cfg.Scoring.MaxThreshold}),
		service.WithMetrics(metrics),
		service.WithPublisher(publisher),
	)
}

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	scorer *service.Scorer,
	metrics *telemetry.Metrics,
	log infralogger.Logger,
) *infragin.Server {
	serverCfg := &infragin.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		Debug:              cfg.Debug,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		MaxMultipartMemory: cfg.Scoring.MaxUploadBytes,
		CORS: infragin.CORSConfig{
			Enabled:        true,
			AllowedOrigins: cfg.Server.CORSOrigins,
		},
		ServiceName:    ServiceName,
		ServiceVersion: Version,
	}

	return infragin.NewServer(serverCfg, log, api.SetupRoutes(api.Deps{
		Scorer: scorer,
		Defaults: handlers.Defaults{
			Threshold:      cfg.Scoring.DefaultThreshold,
			Format:         cfg.Scoring.Format(),
			MaxUploadBytes: cfg.Scoring.MaxUploadBytes,
			PreviewLimit:   cfg.Scoring.PreviewLimit,
		},
		Metrics: metrics,
		Logger:  log,
	}))
}
