package importer

import (
	"fmt"
	"io"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/xuri/excelize/v2"
)

const (
	templateSheet     = "Search Terms"
	instructionsSheet = "Instructions"
)

// TemplateFilename is the suggested download name for WriteTemplate output.
const TemplateFilename = "search-term-template.xlsx"

var (
	templateHeaders = []string{relevance.SearchTermColumn, "impressions", "clicks"}
	templateRows    = [][]any{
		{"acme running shoes", 1200, 48},
		{"free pizza delivery", 310, 2},
	}
	templateInstructions = []string{
		"Column Descriptions:",
		"",
		"search_term - Required. One search query per row. Header case and surrounding spaces are ignored.",
		"Any other column - Optional. Kept in the upload but not used for scoring.",
		"",
		"Only the first sheet is read. CSV uploads must use a .csv file name.",
	}
)

// WriteTemplate writes an example search-term workbook to w.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(templateSheet, "A1", &templateHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, row := range templateRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(templateSheet, cell, &row); err != nil {
			return fmt.Errorf("write example row %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return fmt.Errorf("create instructions sheet: %w", err)
	}
	for i, line := range templateInstructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err = f.SetCellValue(instructionsSheet, cell, line); err != nil {
			return fmt.Errorf("write instructions: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
