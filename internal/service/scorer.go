// Package service runs one scoring request end to end: parse the upload,
// score every term, then encode both artifacts.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/events"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/importer"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/telemetry"
)

var (
	// ErrIncompleteInput is returned when a profile string or the file is missing.
	ErrIncompleteInput = errors.New("please complete all fields and upload a file")
	// ErrThresholdOutOfBounds is returned for a threshold outside the configured range.
	ErrThresholdOutOfBounds = errors.New("threshold out of bounds")
)

// Bounds is the inclusive threshold range operators may choose from.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds matches the operator-facing slider.
var DefaultBounds = Bounds{Min: 50, Max: 100}

// Request is one scoring run's input.
type Request struct {
	Profile   relevance.Profile
	Threshold float64
	Format    exporter.Format
	Filename  string
	File      []byte
}

// Response is one scoring run's output. Both artifacts are always present.
type Response struct {
	RunID     uuid.UUID
	Result    *relevance.Result
	Full      *exporter.Artifact
	Negatives *exporter.Artifact
	Message   string
	Duration  time.Duration
}

// Scorer is stateless between runs.
type Scorer struct {
	bounds    Bounds
	log       infralogger.Logger
	metrics   *telemetry.Metrics
	publisher *events.Publisher
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithBounds overrides DefaultBounds.
func WithBounds(b Bounds) Option {
	return func(s *Scorer) { s.bounds = b }
}

// WithMetrics records run metrics on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Scorer) { s.metrics = m }
}

// WithPublisher emits a run event after each successful run.
func WithPublisher(p *events.Publisher) Option {
	return func(s *Scorer) { s.publisher = p }
}

// NewScorer creates a Scorer. A nil logger discards output.
func NewScorer(log infralogger.Logger, opts ...Option) *Scorer {
	if log == nil {
		log = infralogger.NewNop()
	}
	s := &Scorer{bounds: DefaultBounds, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bounds returns the threshold range this scorer accepts.
func (s *Scorer) Bounds() Bounds {
	return s.bounds
}

// Run validates req, scores it and encodes both artifacts. Nothing is
// returned unless both artifacts encoded.
func (s *Scorer) Run(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	runID := uuid.New()
	log := infralogger.FromContextOr(ctx, s.log).With(infralogger.String("run_id", runID.String()))

	resp, err := s.run(ctx, runID, req)
	elapsed := time.Since(start)

	if err != nil {
		outcome := telemetry.OutcomeFailure
		if IsUserError(err) {
			outcome = telemetry.OutcomeUserError
			log.Info("Scoring run rejected", infralogger.Error(err))
		} else {
			log.Error("Scoring run failed", infralogger.Error(err))
		}
		s.metrics.RecordRun(telemetry.RunSummary{Outcome: outcome, Duration: elapsed})
		return nil, err
	}

	resp.Duration = elapsed
	s.metrics.RecordRun(telemetry.RunSummary{
		Outcome:    telemetry.OutcomeSuccess,
		Scored:     len(resp.Result.Full),
		Flagged:    len(resp.Result.Negatives),
		Confidence: confidenceCounts(resp.Result.Full),
		Duration:   elapsed,
	})
	s.publisher.PublishAsync(events.RunEvent{
		EventType: events.KeywordsScored,
		RunID:     runID,
		Payload: events.RunPayload{
			Total:        len(resp.Result.Full),
			Flagged:      len(resp.Result.Negatives),
			Threshold:    req.Threshold,
			Format:       req.Format.Extension(),
			SourceFormat: string(importer.FormatForFilename(req.Filename)),
		},
	})

	log.Info("Scoring run completed",
		infralogger.Int("total", len(resp.Result.Full)),
		infralogger.Int("flagged", len(resp.Result.Negatives)),
		infralogger.Float64("threshold", req.Threshold),
		infralogger.String("format", req.Format.Extension()),
		infralogger.Duration("duration", elapsed),
	)
	return resp, nil
}

func (s *Scorer) run(ctx context.Context, runID uuid.UUID, req Request) (*Response, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	table, err := importer.Parse(req.Filename, bytes.NewReader(req.File))
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	result, err := relevance.ScoreAndFlag(table, req.Profile, req.Threshold)
	if err != nil {
		return nil, err
	}

	full, err := exporter.Encode(result.Full, req.Format)
	if err != nil {
		return nil, fmt.Errorf("full artifact: %w", err)
	}
	negatives, err := exporter.Encode(result.Negatives, req.Format)
	if err != nil {
		return nil, fmt.Errorf("negatives artifact: %w", err)
	}

	return &Response{
		RunID:     runID,
		Result:    result,
		Full:      full,
		Negatives: negatives,
		Message:   result.FlaggedMessage(),
	}, nil
}

func (s *Scorer) validate(req Request) error {
	p := req.Profile
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Brand) == "" ||
		strings.TrimSpace(p.Market) == "" || len(req.File) == 0 {
		return ErrIncompleteInput
	}
	if req.Threshold < s.bounds.Min || req.Threshold > s.bounds.Max || math.IsNaN(req.Threshold) {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrThresholdOutOfBounds, req.Threshold, s.bounds.Min, s.bounds.Max)
	}
	return nil
}

func confidenceCounts(rows []relevance.ScoredRow) map[string]int {
	counts := make(map[string]int, 3)
	for _, row := range rows {
		counts[string(row.Confidence)]++
	}
	return counts
}

// IsUserError reports whether err was caused by the operator's input rather
// than by the service.
func IsUserError(err error) bool {
	switch {
	case err == nil:
		return false
	case relevance.IsSchemaError(err),
		errors.Is(err, ErrIncompleteInput),
		errors.Is(err, ErrThresholdOutOfBounds),
		errors.Is(err, relevance.ErrThresholdRange),
		errors.Is(err, exporter.ErrUnknownFormat) && !isEncodingError(err),
		errors.Is(err, importer.ErrUnreadableFile),
		errors.Is(err, importer.ErrEmptyFile):
		return true
	default:
		return false
	}
}

func isEncodingError(err error) bool {
	var encErr *exporter.EncodingError
	return errors.As(err, &encErr)
}
