// Package importer reads uploaded search-term reports into a relevance.Table.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
)

var (
	// ErrUnreadableFile wraps any failure to decode the uploaded bytes.
	ErrUnreadableFile = errors.New("unable to read file")
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("file is empty")
)

// SourceFormat is the container format of an uploaded report.
type SourceFormat string

const (
	SourceCSV   SourceFormat = "csv"
	SourceExcel SourceFormat = "xlsx"
)

// FormatForFilename picks the reader for an upload. Only a lowercase ".csv"
// suffix selects CSV; everything else is read as a workbook.
func FormatForFilename(name string) SourceFormat {
	if strings.HasSuffix(name, ".csv") {
		return SourceCSV
	}
	return SourceExcel
}

// Parse reads r according to the format implied by filename.
func Parse(filename string, r io.Reader) (relevance.Table, error) {
	if FormatForFilename(filename) == SourceCSV {
		return ParseCSV(r)
	}
	return ParseExcel(r)
}

func unreadable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnreadableFile, err)
}

// tableFromRecords splits the header row off records.
func tableFromRecords(records [][]string) (relevance.Table, error) {
	if len(records) == 0 {
		return relevance.Table{}, ErrEmptyFile
	}
	return relevance.Table{Columns: records[0], Rows: records[1:]}, nil
}
