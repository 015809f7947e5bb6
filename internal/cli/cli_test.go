package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/cli"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/testhelpers"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// A config path that does not exist yields defaults.
	args = append(args, "--config", filepath.Join(t.TempDir(), "missing.yml"))

	var out bytes.Buffer
	cmd := cli.NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeReport(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func acmeArgs(report string) []string {
	return []string{"score", "--file", report, "--name", "Acme Corp", "--brand", "Acme", "--market", "USA"}
}

func TestScore_WritesBothArtifacts(t *testing.T) {
	report := writeReport(t, "report.csv", testhelpers.CSV(
		[]string{"search_term"}, []string{"acme shoes"}, []string{"ACME Corp"}, []string{"pizza delivery"},
	))
	outDir := t.TempDir()

	out, err := run(t, append(acmeArgs(report), "--format", "csv", "--out-dir", outDir)...)
	require.NoError(t, err)

	assert.Contains(t, out, "2 terms flagged as negative (Low Relevance)")
	assert.Contains(t, out, "pizza delivery")

	full, err := os.ReadFile(filepath.Join(outDir, "full_scored_keywords.csv"))
	require.NoError(t, err)
	fullRows, err := exporter.Decode(full, exporter.FormatCSV)
	require.NoError(t, err)
	assert.Len(t, fullRows, 3)

	neg, err := os.ReadFile(filepath.Join(outDir, "negative_keywords.csv"))
	require.NoError(t, err)
	negRows, err := exporter.Decode(neg, exporter.FormatCSV)
	require.NoError(t, err)
	require.Len(t, negRows, 2)
	for _, r := range negRows {
		assert.Equal(t, relevance.LowRelevance, r.Confidence)
	}
}

func TestScore_DefaultsToXLSX(t *testing.T) {
	workbook := testhelpers.Workbook(t, []string{"search_term"}, [][]string{{"acme corp"}})
	report := writeReport(t, "report.xlsx", workbook)
	outDir := t.TempDir()

	out, err := run(t, append(acmeArgs(report), "--out-dir", outDir)...)
	require.NoError(t, err)
	assert.Contains(t, out, "0 terms flagged as negative (Low Relevance)")

	assert.FileExists(t, filepath.Join(outDir, "full_scored_keywords.xlsx"))
	assert.FileExists(t, filepath.Join(outDir, "negative_keywords.xlsx"))
}

func TestScore_FailureWritesNothing(t *testing.T) {
	report := writeReport(t, "report.csv", testhelpers.CSV([]string{"query"}, []string{"acme"}))
	outDir := t.TempDir()

	_, err := run(t, append(acmeArgs(report), "--out-dir", outDir)...)
	require.Error(t, err)
	assert.Equal(t, "File must contain a 'search_term' column.", err.Error())

	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestScore_Rejections(t *testing.T) {
	report := writeReport(t, "report.csv", testhelpers.CSV([]string{"search_term"}, []string{"acme"}))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"threshold below bounds", append(acmeArgs(report), "--threshold", "10"), "threshold out of bounds"},
		{"unknown format", append(acmeArgs(report), "--format", "pdf"), "unknown output format"},
		{"missing brand", []string{"score", "--file", report, "--name", "Acme", "--market", "USA"}, "please complete all fields"},
		{"missing file flag", []string{"score", "--name", "Acme"}, "required flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--out-dir", t.TempDir())...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInspect(t *testing.T) {
	rows := []relevance.ScoredRow{
		{SearchTerm: "acme corp", FuzzyScore: 100, Confidence: relevance.HighRelevance},
		{SearchTerm: "pizza delivery", FuzzyScore: 30, Confidence: relevance.LowRelevance},
	}
	artifact, err := exporter.Encode(rows, exporter.FormatXLSX)
	require.NoError(t, err)
	path := writeReport(t, "negative_keywords.xlsx", artifact.Data)

	out, err := run(t, "inspect", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "negative_keywords.xlsx: 2 rows")
	assert.Contains(t, out, "High Relevance 1, Medium Relevance 0, Low Relevance 1")
	assert.Contains(t, out, "pizza delivery")
}

func TestInspect_Limit(t *testing.T) {
	rows := []relevance.ScoredRow{
		{SearchTerm: "alpha", FuzzyScore: 10, Confidence: relevance.LowRelevance},
		{SearchTerm: "beta", FuzzyScore: 20, Confidence: relevance.LowRelevance},
		{SearchTerm: "gamma", FuzzyScore: 30, Confidence: relevance.LowRelevance},
	}
	artifact, err := exporter.Encode(rows, exporter.FormatCSV)
	require.NoError(t, err)
	path := writeReport(t, "negative_keywords.csv", artifact.Data)

	out, err := run(t, "inspect", "--file", path, "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "alpha")
	assert.NotContains(t, out, "gamma")
	assert.Contains(t, out, "2 more")
}

func TestInspect_Errors(t *testing.T) {
	notArtifact := writeReport(t, "report.csv", testhelpers.CSV([]string{"search_term"}, []string{"acme"}))
	wrongExt := writeReport(t, "report.txt", []byte("search_term\n"))

	_, err := run(t, "inspect", "--file", notArtifact)
	require.ErrorIs(t, err, exporter.ErrNotArtifact)

	_, err = run(t, "inspect", "--file", wrongExt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".xlsx or .csv")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "negkw version")
}
