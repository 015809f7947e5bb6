package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/xuri/excelize/v2"
)

// ErrNotArtifact is returned by Decode when the data lacks the artifact header.
var ErrNotArtifact = errors.New("not a scored keyword artifact")

// Decode reads an artifact produced by Encode back into rows.
func Decode(data []byte, f Format) ([]relevance.ScoredRow, error) {
	var (
		records [][]string
		err     error
	)
	switch f {
	case FormatCSV:
		records, err = csv.NewReader(bytes.NewReader(data)).ReadAll()
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}

	if len(records) == 0 || !slices.Equal(records[0], Header) {
		return nil, ErrNotArtifact
	}

	rows := make([]relevance.ScoredRow, 0, len(records)-1)
	for i, record := range records[1:] {
		row, rowErr := decodeRecord(record)
		if rowErr != nil {
			return nil, fmt.Errorf("decode %s row %d: %w", f, i+1, rowErr)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func decodeRecord(record []string) (relevance.ScoredRow, error) {
	cells := make([]string, len(Header))
	copy(cells, record)

	score, err := strconv.Atoi(cells[1])
	if err != nil {
		return relevance.ScoredRow{}, fmt.Errorf("fuzzy_score: %w", err)
	}
	return relevance.ScoredRow{
		SearchTerm: cells[0],
		FuzzyScore: score,
		Confidence: relevance.Confidence(cells[2]),
	}, nil
}
