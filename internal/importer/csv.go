package importer

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
)

const utf8BOM = "\ufeff"

// ParseCSV reads a comma-separated report. Rows may have differing widths
// and blank lines are skipped. A quote inside an unquoted field, such as an
// inch mark, is kept as text.
func ParseCSV(r io.Reader) (relevance.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return relevance.Table{}, unreadable(err)
		}
		records = append(records, record)
	}

	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}

	return tableFromRecords(records)
}
