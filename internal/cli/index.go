package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/edgarscan/internal/index"
	"github.com/ppiankov/edgarscan/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	periods   []string
	entityIDs []string
	forms     []string
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Analyse filings listed in the quarterly master indexes",
	Long: `Index downloads the quarterly master index for each period and:
- Keeps the rows matching the requested entities and form types
- Downloads each filing's raw text
- Extracts 8-K item topics and filing dates, Form 4 officer fields and
  bankruptcy mentions
- Reports form and topic frequencies, delisting dates, officer titles and
  disposals by date

Periods are written YEARQn or YEAR-n.

Example:
  edgarscan index --period 2023Q1 --form 8-K --cik 719739,834285
  edgarscan index --period 2021Q1 --period 2021Q2 --form 4 --cik 1411579
  edgarscan index --period 2023Q1 --workers 4 --json q1.json`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringSliceVar(&periods, "period", nil, "quarter to list, e.g. 2023Q1 (repeatable)")
	indexCmd.Flags().StringSliceVar(&entityIDs, "cik", nil, "entity IDs to keep (default all)")
	indexCmd.Flags().StringSliceVar(&forms, "form", nil, "form types to keep (default all)")
	indexCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")
	_ = indexCmd.MarkFlagRequired("period")

	addTransportFlags(indexCmd.Flags())
}

func runIndex(cmd *cobra.Command, args []string) error {
	parsed := make([]index.Period, 0, len(periods))
	for _, s := range periods {
		p, err := index.ParsePeriod(s)
		if err != nil {
			return fmt.Errorf("invalid period %q: %w", s, err)
		}
		parsed = append(parsed, p)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyTransportFlags(cmd, cfg)

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Periods:  %v\n", periods)
		fmt.Fprintf(os.Stderr, "Entities: %v\n", entityIDs)
		fmt.Fprintf(os.Stderr, "Forms:    %v\n", forms)
		fmt.Fprintf(os.Stderr, "Workers:  %d\n", cfg.Concurrency.Workers)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "⚙️  Downloading indexes...\n")
	}

	p := pipeline.NewPipeline(cfg, logger)

	report, err := p.RunIndex(ctx, parsed, entityIDs, forms)
	if err != nil {
		return fmt.Errorf("index run failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Selected %d filings\n", len(report.Records))
		fmt.Fprintf(os.Stderr, "✓ Fetched %d/%d documents\n", report.FetchedCount(), len(report.Documents))
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(report, cfg.Output.JSONPath, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
