package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/xuri/excelize/v2"
)

// ParseExcel reads the first worksheet of a workbook. The first row is the
// header; cells beyond a row's last value are treated as missing.
func ParseExcel(r io.Reader) (relevance.Table, error) {
	rows, err := openExcelRows(r)
	if err != nil {
		return relevance.Table{}, err
	}
	return tableFromRecords(rows)
}

// openExcelRows returns every row of the first sheet, or nil with an error.
func openExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, unreadable(err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, unreadable(errors.New("workbook has no sheets"))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, unreadable(fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}
