package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
)

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// Publisher appends run events to a Redis stream.
type Publisher struct {
	client *redis.Client
	stream string
	maxLen int64
	log    infralogger.Logger
}

// NewPublisher creates a publisher writing to stream. Returns nil if client
// is nil, and a nil *Publisher is a valid no-op.
func NewPublisher(client *redis.Client, stream string, log infralogger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	if stream == "" {
		stream = DefaultStreamName
	}
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Publisher{
		client: client,
		stream: stream,
		maxLen: DefaultMaxLen,
		log:    log,
	}
}

// Publish sends an event to the Redis stream.
func (p *Publisher) Publish(ctx context.Context, event RunEvent) error {
	if p == nil || p.client == nil {
		return nil
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		p.log.Error("Failed to publish run event",
			infralogger.String("event_type", string(event.EventType)),
			infralogger.String("run_id", event.RunID.String()),
			infralogger.Error(publishErr),
		)
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Debug("Published run event",
		infralogger.String("event_type", string(event.EventType)),
		infralogger.String("run_id", event.RunID.String()),
		infralogger.String("stream_id", result.Val()),
	)

	return nil
}

// PublishAsync publishes an event in the background. Errors are logged, not
// returned.
func (p *Publisher) PublishAsync(event RunEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Warn("Async publish failed",
				infralogger.String("run_id", event.RunID.String()),
				infralogger.Error(err),
			)
		}
	}()
}
