// Package events publishes scoring-run summaries to a Redis stream.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DefaultStreamName is the Redis stream run summaries are appended to.
const DefaultStreamName = "negative-keyword-events"

// DefaultMaxLen caps the stream length (approximate trimming).
const DefaultMaxLen = 10000

// EventType represents the type of run event.
type EventType string

const (
	// KeywordsScored is emitted after a run produced both artifacts.
	KeywordsScored EventType = "KEYWORDS_SCORED"
)

// RunEvent is the envelope for run events.
type RunEvent struct {
	EventID   uuid.UUID  `json:"event_id"`
	EventType EventType  `json:"event_type"`
	RunID     uuid.UUID  `json:"run_id"`
	Timestamp time.Time  `json:"timestamp"`
	Payload   RunPayload `json:"payload"`
}

// RunPayload carries counts only; search terms and advertiser strings never
// leave the process.
type RunPayload struct {
	Total        int     `json:"total"`
	Flagged      int     `json:"flagged"`
	Threshold    float64 `json:"threshold"`
	Format       string  `json:"format"`
	SourceFormat string  `json:"source_format"`
}
