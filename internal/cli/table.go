package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
)

// renderRows prints rows as a table, showing at most limit rows when limit > 0.
func renderRows(w io.Writer, rows []relevance.ScoredRow, limit int) {
	if len(rows) == 0 {
		return
	}

	shown, hidden := previewRows(rows, limit)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Search Term", "Score", "Confidence"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
	})

	for i, row := range shown {
		t.AppendRow(table.Row{i + 1, row.SearchTerm, row.FuzzyScore, row.Confidence})
	}
	t.Render()

	if hidden > 0 {
		fmt.Fprintf(w, "... %d more\n", hidden)
	}
}
