package exporter_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sampleRows = []relevance.ScoredRow{
	{SearchTerm: "ACME Corp", FuzzyScore: 100, Confidence: relevance.HighRelevance},
	{SearchTerm: "acme shoes, blue", FuzzyScore: 67, Confidence: relevance.LowRelevance},
	{SearchTerm: `say "acme"`, FuzzyScore: 82, Confidence: relevance.MediumRelevance},
	{SearchTerm: "", FuzzyScore: 18, Confidence: relevance.LowRelevance},
	{SearchTerm: "café straße", FuzzyScore: 0, Confidence: relevance.LowRelevance},
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    exporter.Format
		wantErr bool
	}{
		{"", exporter.FormatXLSX, false},
		{"xlsx", exporter.FormatXLSX, false},
		{" Excel (.xlsx) ", exporter.FormatXLSX, false},
		{"CSV", exporter.FormatCSV, false},
		{"csv (.csv)", exporter.FormatCSV, false},
		{"pdf", 0, true},
	}

	for _, tt := range tests {
		got, err := exporter.ParseFormat(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, exporter.ErrUnknownFormat, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", exporter.FormatXLSX.MIMEType())
	assert.Equal(t, "text/csv", exporter.FormatCSV.MIMEType())
	assert.Equal(t, "xlsx", exporter.FormatXLSX.Extension())
	assert.Equal(t, "csv", exporter.FormatCSV.Extension())
	assert.Equal(t, "Excel (.xlsx)", exporter.FormatXLSX.Label())
	assert.Equal(t, "CSV (.csv)", exporter.FormatCSV.Label())

	var f exporter.Format
	require.NoError(t, f.UnmarshalText([]byte("csv")))
	assert.Equal(t, exporter.FormatCSV, f)
	text, err := f.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "csv", string(text))
}

func TestEncodeCSV(t *testing.T) {
	t.Parallel()

	artifact, err := exporter.Encode(sampleRows[:3], exporter.FormatCSV)
	require.NoError(t, err)

	want := "search_term,fuzzy_score,confidence\n" +
		"ACME Corp,100,High Relevance\n" +
		"\"acme shoes, blue\",67,Low Relevance\n" +
		"\"say \"\"acme\"\"\",82,Medium Relevance\n"
	assert.Equal(t, want, string(artifact.Data))
	assert.Equal(t, "text/csv", artifact.MIMEType)
	assert.Equal(t, "full_scored_keywords.csv", artifact.Filename(exporter.FullBaseName))
	assert.Equal(t, "negative_keywords.csv", artifact.Filename(exporter.NegativesBaseName))
}

func TestEncodeCSV_RoundTripIsByteIdentical(t *testing.T) {
	t.Parallel()

	first, err := exporter.Encode(sampleRows, exporter.FormatCSV)
	require.NoError(t, err)

	decoded, err := exporter.Decode(first.Data, exporter.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, sampleRows, decoded)

	second, err := exporter.Encode(decoded, exporter.FormatCSV)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first.Data, second.Data))
}

func TestEncodeXLSX_RoundTripIsValueIdentical(t *testing.T) {
	t.Parallel()

	artifact, err := exporter.Encode(sampleRows, exporter.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, "full_scored_keywords.xlsx", artifact.Filename(exporter.FullBaseName))

	decoded, err := exporter.Decode(artifact.Data, exporter.FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, sampleRows, decoded)
}

func TestEncodeXLSX_ScoreIsNumeric(t *testing.T) {
	t.Parallel()

	artifact, err := exporter.Encode(sampleRows[:1], exporter.FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(artifact.Data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	cellType, err := f.GetCellType("Sheet1", "B2")
	require.NoError(t, err)
	assert.NotContains(t, []excelize.CellType{excelize.CellTypeSharedString, excelize.CellTypeInlineString}, cellType)

	value, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "100", value)
}

func TestEncode_EmptyRowsKeepHeader(t *testing.T) {
	t.Parallel()

	for _, format := range []exporter.Format{exporter.FormatCSV, exporter.FormatXLSX} {
		artifact, err := exporter.Encode(nil, format)
		require.NoError(t, err)

		decoded, err := exporter.Decode(artifact.Data, format)
		require.NoError(t, err)
		assert.Empty(t, decoded)
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	huge := []relevance.ScoredRow{{SearchTerm: strings.Repeat("a", excelize.TotalCellChars+1)}}
	_, err := exporter.Encode(huge, exporter.FormatXLSX)

	var encErr *exporter.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, exporter.FormatXLSX, encErr.Format)
	assert.ErrorIs(t, err, excelize.ErrCellCharsLength)

	_, err = exporter.Encode(sampleRows, exporter.Format(42))
	require.ErrorAs(t, err, &encErr)
	assert.True(t, errors.Is(err, exporter.ErrUnknownFormat))
}

func TestEncode_RejectsControlCharacters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		term string
	}{
		{"carriage return", "acme\r\nshoes"},
		{"start of heading", "a\x01b"},
		{"nul", "acme\x00"},
		{"noncharacter", "acme\uffff"},
	}

	for _, tt := range tests {
		for _, format := range []exporter.Format{exporter.FormatCSV, exporter.FormatXLSX} {
			rows := []relevance.ScoredRow{sampleRows[0], {SearchTerm: tt.term, Confidence: relevance.LowRelevance}}
			_, err := exporter.Encode(rows, format)

			var encErr *exporter.EncodingError
			require.ErrorAs(t, err, &encErr, "%s/%s", tt.name, format)
			assert.Equal(t, format, encErr.Format)
			assert.ErrorIs(t, err, exporter.ErrControlCharacter)
			assert.Contains(t, err.Error(), "row 2")
		}
	}
}

func TestEncode_TabAndNewlineRoundTrip(t *testing.T) {
	t.Parallel()

	rows := []relevance.ScoredRow{{SearchTerm: "acme\tshoes\nblue", FuzzyScore: 50, Confidence: relevance.LowRelevance}}

	for _, format := range []exporter.Format{exporter.FormatCSV, exporter.FormatXLSX} {
		artifact, err := exporter.Encode(rows, format)
		require.NoError(t, err)

		decoded, err := exporter.Decode(artifact.Data, format)
		require.NoError(t, err)
		assert.Equal(t, rows, decoded)

		again, err := exporter.Encode(decoded, format)
		require.NoError(t, err)
		if format == exporter.FormatCSV {
			assert.True(t, bytes.Equal(artifact.Data, again.Data))
		}
	}
}

func TestDecode_RejectsForeignData(t *testing.T) {
	t.Parallel()

	_, err := exporter.Decode([]byte("query,clicks\nacme,1\n"), exporter.FormatCSV)
	require.ErrorIs(t, err, exporter.ErrNotArtifact)

	_, err = exporter.Decode([]byte("search_term,fuzzy_score,confidence\nacme,high,Low Relevance\n"), exporter.FormatCSV)
	require.Error(t, err)

	_, err = exporter.Decode([]byte("not a workbook"), exporter.FormatXLSX)
	require.Error(t, err)
}
