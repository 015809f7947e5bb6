package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/exporter"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/relevance"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/service"
)

const artifactFileMode = 0o644

type scoreOptions struct {
	file      string
	name      string
	brand     string
	market    string
	threshold float64
	format    string
	outDir    string
	preview   int
}

func newScoreCommand(global *globalOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a search-term report and write both result files",
		Example: `  negkw score --file report.xlsx --name "Acme Corp" --brand Acme --market USA
  negkw score --file report.csv --name "Acme Corp" --brand Acme --market USA --threshold 70 --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			log, err := global.logger(cfg)
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			flags := cmd.Flags()
			if !flags.Changed("threshold") {
				opts.threshold = cfg.Scoring.DefaultThreshold
			}
			if !flags.Changed("format") {
				opts.format = cfg.Scoring.DefaultFormat
			}
			if !flags.Changed("preview") {
				opts.preview = cfg.Scoring.PreviewLimit
			}

			scorer := bootstrap.SetupScorer(cfg, log, nil, nil)
			return runScore(cmd, scorer, opts, log)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "search-term report (.csv or .xlsx)")
	flags.StringVar(&opts.name, "name", "", "advertiser name")
	flags.StringVar(&opts.brand, "brand", "", "advertiser brand")
	flags.StringVar(&opts.market, "market", "", "advertiser market")
	flags.Float64VarP(&opts.threshold, "threshold", "t", relevance.DefaultThreshold,
		"terms scoring below this are flagged")
	flags.StringVar(&opts.format, "format", exporter.DefaultFormat.Extension(), "output format: xlsx or csv")
	flags.StringVarP(&opts.outDir, "out-dir", "o", ".", "directory for the result files")
	flags.IntVar(&opts.preview, "preview", 0, "negatives to show (0 shows all)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runScore(cmd *cobra.Command, scorer *service.Scorer, opts *scoreOptions, log infralogger.Logger) error {
	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(opts.file)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	resp, err := scorer.Run(cmd.Context(), service.Request{
		Profile: relevance.Profile{
			Name:   opts.name,
			Brand:  opts.brand,
			Market: opts.market,
		},
		Threshold: opts.threshold,
		Format:    format,
		Filename:  filepath.Base(opts.file),
		File:      data,
	})
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(opts.outDir, resp)
	if err != nil {
		return err
	}
	log.Debug("Artifacts written", infralogger.Strings("paths", paths))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, resp.Message)
	renderRows(out, resp.Result.Negatives, opts.preview)
	for _, p := range paths {
		fmt.Fprintf(out, "Wrote %s\n", p)
	}
	return nil
}

// writeArtifacts writes both files. Both are already encoded, so a failure
// here is a filesystem problem, never a partial encode.
func writeArtifacts(dir string, resp *service.Response) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	files := []struct {
		artifact *exporter.Artifact
		base     string
	}{
		{resp.Full, exporter.FullBaseName},
		{resp.Negatives, exporter.NegativesBaseName},
	}

	paths := make([]string, 0, len(files))
	var errs []error
	for _, f := range files {
		path := filepath.Join(dir, f.artifact.Filename(f.base))
		if err := os.WriteFile(path, f.artifact.Data, artifactFileMode); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}

func previewRows(rows []relevance.ScoredRow, limit int) ([]relevance.ScoredRow, int) {
	if limit <= 0 || len(rows) <= limit {
		return rows, 0
	}
	return rows[:limit], len(rows) - limit
}
