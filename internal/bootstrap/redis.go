package bootstrap

import (
	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/config"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/events"
)

// SetupEventPublisher creates an optional event publisher if Redis is enabled.
// Returns a nil publisher if Redis is disabled or unavailable. The returned
// func closes the client and is always safe to call.
func SetupEventPublisher(cfg *config.Config, log infralogger.Logger) (*events.Publisher, func()) {
	noop := func() {}
	if !cfg.Redis.Enabled {
		return nil, noop
	}

	redisClient, err := infraredis.NewClient(infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled",
			infralogger.Error(err),
		)
		return nil, noop
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
		infralogger.String("stream", cfg.Redis.Stream),
	)
	return events.NewPublisher(redisClient, cfg.Redis.Stream, log), func() {
		if closeErr := redisClient.Close(); closeErr != nil {
			log.Warn("Failed to close redis client", infralogger.Error(closeErr))
		}
	}
}
