package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
)

var errUnknownExtension = errors.New("file must end in .xlsx or .csv")

func newInspectCommand() *cobra.Command {
	var (
		file  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the contents of a scored keyword file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := formatForPath(file)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read artifact: %w", err)
			}

			rows, err := exporter.Decode(data, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d rows (%s)\n", filepath.Base(file), len(rows), confidenceSummary(rows))
			renderRows(out, rows, limit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "artifact produced by score")
	cmd.Flags().IntVar(&limit, "limit", 0, "rows to show (0 shows all)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func formatForPath(path string) (exporter.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return exporter.FormatXLSX, nil
	case ".csv":
		return exporter.FormatCSV, nil
	default:
		return exporter.DefaultFormat, fmt.Errorf("%w: %s", errUnknownExtension, path)
	}
}

func confidenceSummary(rows []relevance.ScoredRow) string {
	counts := make(map[relevance.Confidence]int, 3)
	for _, r := range rows {
		counts[r.Confidence]++
	}
	return fmt.Sprintf("%s %d, %s %d, %s %d",
		relevance.HighRelevance, counts[relevance.HighRelevance],
		relevance.MediumRelevance, counts[relevance.MediumRelevance],
		relevance.LowRelevance, counts[relevance.LowRelevance],
	)
}
