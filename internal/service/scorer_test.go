package service_test

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/events"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/service"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/telemetry"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/testhelpers"
)

var acme = relevance.Profile{Name: "Acme Corp", Brand: "Acme", Market: "USA"}

const acmeCSV = "Search_Term,Clicks\nacme shoes,4\nACME Corp,10\npizza delivery,1\n,0\n"

func acmeRequest(format exporter.Format) service.Request {
	return service.Request{
		Profile:   acme,
		Threshold: 80,
		Format:    format,
		Filename:  "report.csv",
		File:      []byte(acmeCSV),
	}
}

func TestRun_AcmeCSV(t *testing.T) {
	t.Parallel()

	scorer := service.NewScorer(testhelpers.NewTestLogger())
	resp, err := scorer.Run(context.Background(), acmeRequest(exporter.FormatCSV))
	require.NoError(t, err)

	assert.Equal(t, "3 terms flagged as negative (Low Relevance)", resp.Message)
	assert.Len(t, resp.Result.Full, 4)
	assert.Equal(t, "full_scored_keywords.csv", resp.Full.Filename(exporter.FullBaseName))
	assert.Equal(t, "text/csv", resp.Negatives.MIMEType)

	negatives, err := exporter.Decode(resp.Negatives.Data, exporter.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, resp.Result.Negatives, negatives)

	for _, row := range negatives {
		assert.NotEqual(t, "ACME Corp", row.SearchTerm)
	}
}

func TestRun_XLSXFromWorkbook(t *testing.T) {
	t.Parallel()

	workbook := testhelpers.Workbook(t, []string{"search_term"}, [][]string{{"acme corp"}, {"pizza delivery"}})
	req := acmeRequest(exporter.FormatXLSX)
	req.Filename = "report.xlsx"
	req.File = workbook

	resp, err := service.NewScorer(nil).Run(context.Background(), req)
	require.NoError(t, err)

	full, err := exporter.Decode(resp.Full.Data, exporter.FormatXLSX)
	require.NoError(t, err)
	require.Len(t, full, 2)
	assert.Equal(t, 100, full[0].FuzzyScore)
	assert.Equal(t, relevance.HighRelevance, full[0].Confidence)
	assert.Equal(t, "negative_keywords.xlsx", resp.Negatives.Filename(exporter.NegativesBaseName))
}

func TestRun_Rejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*service.Request)
		check  func(t *testing.T, err error)
	}{
		{
			name:   "blank brand",
			mutate: func(r *service.Request) { r.Profile.Brand = "  " },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, service.ErrIncompleteInput) },
		},
		{
			name:   "no file",
			mutate: func(r *service.Request) { r.File = nil },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, service.ErrIncompleteInput) },
		},
		{
			name:   "threshold below slider",
			mutate: func(r *service.Request) { r.Threshold = 49 },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, service.ErrThresholdOutOfBounds) },
		},
		{
			name:   "threshold NaN",
			mutate: func(r *service.Request) { r.Threshold = math.NaN() },
			check:  func(t *testing.T, err error) { assert.ErrorIs(t, err, service.ErrThresholdOutOfBounds) },
		},
		{
			name:   "missing search_term column",
			mutate: func(r *service.Request) { r.File = []byte("query\nacme\n") },
			check: func(t *testing.T, err error) {
				assert.True(t, relevance.IsSchemaError(err))
				assert.Equal(t, "File must contain a 'search_term' column.", err.Error())
			},
		},
		{
			name: "corrupt workbook",
			mutate: func(r *service.Request) {
				r.Filename = "report.xlsx"
			},
			check: func(t *testing.T, err error) { assert.True(t, service.IsUserError(err)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := acmeRequest(exporter.FormatCSV)
			tt.mutate(&req)

			resp, err := service.NewScorer(nil).Run(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, service.IsUserError(err))
			tt.check(t, err)
		})
	}
}

func TestRun_EncodingFailureIsInternal(t *testing.T) {
	t.Parallel()

	req := acmeRequest(exporter.FormatXLSX)
	req.File = []byte("search_term\n" + strings.Repeat("x", 40000) + "\n")

	resp, err := service.NewScorer(nil).Run(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, resp)

	var encErr *exporter.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.False(t, service.IsUserError(err))
}

func TestRun_CustomBounds(t *testing.T) {
	t.Parallel()

	scorer := service.NewScorer(nil, service.WithBounds(service.Bounds{Min: 0, Max: 100}))
	req := acmeRequest(exporter.FormatCSV)
	req.Threshold = 10

	resp, err := scorer.Run(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, service.Bounds{Min: 0, Max: 100}, scorer.Bounds())
	assert.Len(t, resp.Result.Negatives, 0)
}

func TestRun_RecordsMetricsAndPublishes(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	metrics := telemetry.New(prometheus.NewRegistry())
	scorer := service.NewScorer(nil,
		service.WithMetrics(metrics),
		service.WithPublisher(events.NewPublisher(client, "runs", nil)),
	)

	resp, err := scorer.Run(context.Background(), acmeRequest(exporter.FormatCSV))
	require.NoError(t, err)

	_, err = scorer.Run(context.Background(), service.Request{})
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(telemetry.OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RunsTotal.WithLabelValues(telemetry.OutcomeUserError)), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(metrics.TermsScored), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.TermsFlagged), 0)

	assert.Eventually(t, func() bool {
		msgs, xErr := client.XRange(context.Background(), "runs", "-", "+").Result()
		if xErr != nil || len(msgs) != 1 {
			return false
		}
		raw, _ := msgs[0].Values["event"].(string)
		return strings.Contains(raw, resp.RunID.String()) && strings.Contains(raw, `"flagged":3`)
	}, time.Second, 10*time.Millisecond)
}
