package exporter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/xuri/excelize/v2"
)

// Artifact base names.
const (
	FullBaseName      = "full_scored_keywords"
	NegativesBaseName = "negative_keywords"
)

const sheetName = "Sheet1"

// ErrControlCharacter is returned for a search term holding a control
// character other than tab or line feed. Neither artifact format carries
// one unchanged: CSV reads "\r\n" back as "\n" and xlsx replaces the rest.
var ErrControlCharacter = errors.New("search term contains a control character")

// Header is the column layout of every artifact.
var Header = []string{relevance.SearchTermColumn, "fuzzy_score", "confidence"}

// Artifact is one encoded file.
type Artifact struct {
	Data      []byte
	MIMEType  string
	Extension string
}

// Filename joins base with the artifact's extension.
func (a *Artifact) Filename(base string) string {
	return base + "." + a.Extension
}

// EncodingError reports a failure to serialise rows.
type EncodingError struct {
	Format Format
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Encode serialises rows with Header as the first row.
func Encode(rows []relevance.ScoredRow, f Format) (*Artifact, error) {
	var (
		data []byte
		err  error
	)
	if err = checkTerms(rows); err != nil {
		return nil, &EncodingError{Format: f, Err: err}
	}
	switch f {
	case FormatCSV:
		data, err = encodeCSV(rows)
	case FormatXLSX:
		data, err = encodeXLSX(rows)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, &EncodingError{Format: f, Err: err}
	}

	return &Artifact{Data: data, MIMEType: f.MIMEType(), Extension: f.Extension()}, nil
}

func checkTerms(rows []relevance.ScoredRow) error {
	for i, row := range rows {
		if strings.IndexFunc(row.SearchTerm, unencodable) >= 0 {
			return fmt.Errorf("row %d: %w", i+1, ErrControlCharacter)
		}
	}
	return nil
}

func unencodable(r rune) bool {
	if r == '\t' || r == '\n' {
		return false
	}
	return unicode.IsControl(r) || r == 0xFFFE || r == 0xFFFF
}

func encodeCSV(rows []relevance.ScoredRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{row.SearchTerm, strconv.Itoa(row.FuzzyScore), string(row.Confidence)}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeXLSX(rows []relevance.ScoredRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, err
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err = sw.SetRow("A1", header); err != nil {
		return nil, err
	}

	for i, row := range rows {
		// The workbook writer truncates longer cells.
		if utf8.RuneCountInString(row.SearchTerm) > excelize.TotalCellChars {
			return nil, fmt.Errorf("row %d: %w", i+1, excelize.ErrCellCharsLength)
		}
		cell, cellErr := excelize.CoordinatesToCellName(1, i+2)
		if cellErr != nil {
			return nil, cellErr
		}
		values := []any{row.SearchTerm, row.FuzzyScore, string(row.Confidence)}
		if err = sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err = sw.Flush(); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
