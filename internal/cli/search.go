package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	outJSON     string
	timeout     time.Duration
	userAgent   string
	noCache     bool
	workers     int
	httpProxy   string
	httpsProxy  string
	query       string
	targetCount int
	pageSize    int
	seed        int64
	docType     string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Crawl the full-text search API and analyse annual reports",
	Long: `Search pages through the full-text search API and:
- Samples the hits down to the target count
- Enriches each filing with the filer's state and industry
- Downloads each filing and keeps the requested sub-document
- Extracts the Item 1 business section and AI sentences
- Rolls up filings and AI-mentioning filings by state

The API key is read from EDGARSCAN_SEARCH_API_KEY, SEC_API_KEY, .env or
the config file.

Example:
  edgarscan search
  edgarscan search --target 100 --seed 42 --json ai-2023.json
  edgarscan search --query 'formType:"10-K" AND filedAt:[2022-01-01 TO 2022-12-31]'`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	// Output flags
	searchCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path (empty to skip)")

	// Search flags
	searchCmd.Flags().StringVar(&query, "query", "", "search query (default from config)")
	searchCmd.Flags().IntVar(&targetCount, "target", 0, "number of filings to sample (default from config)")
	searchCmd.Flags().IntVar(&pageSize, "page-size", 0, "search page size (default from config)")
	searchCmd.Flags().Int64Var(&seed, "seed", 0, "sampling seed, 0 for a random sample")
	searchCmd.Flags().StringVar(&docType, "doc-type", "", "sub-document type to keep (default from config)")

	addTransportFlags(searchCmd.Flags())
}

// addTransportFlags registers the HTTP flags shared by every run command
func addTransportFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&timeout, "timeout", 30*time.Minute, "overall run timeout")
	fs.StringVar(&userAgent, "ua", "", "HTTP User-Agent, must include a contact address (default from config)")
	fs.BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	fs.IntVar(&workers, "workers", 0, "concurrent document downloads (default from config)")
	fs.StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	fs.StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

// applyTransportFlags copies explicitly set shared flags over cfg
func applyTransportFlags(cmd *cobra.Command, cfg *model.Config) {
	fs := cmd.Flags()
	if fs.Changed("ua") {
		cfg.HTTP.UserAgent = userAgent
	}
	if fs.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if fs.Changed("workers") {
		cfg.Concurrency.Workers = workers
	}
	if fs.Changed("http-proxy") {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if fs.Changed("https-proxy") {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	cfg.Output.Verbose = verbose
	if fs.Changed("json") || cfg.Output.JSONPath == "" {
		cfg.Output.JSONPath = outJSON
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Build configuration from file, env and flags
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyTransportFlags(cmd, cfg)
	fs := cmd.Flags()
	if fs.Changed("query") {
		cfg.Search.Query = query
	}
	if fs.Changed("target") {
		cfg.Search.TargetCount = targetCount
	}
	if fs.Changed("page-size") {
		cfg.Search.PageSize = pageSize
	}
	if fs.Changed("seed") {
		cfg.Sampling.Seed = seed
	}
	if fs.Changed("doc-type") {
		cfg.Document.TargetDocType = docType
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Query:   %s\n", cfg.Search.Query)
		fmt.Fprintf(os.Stderr, "Target:  %d (page size %d)\n", cfg.Search.TargetCount, cfg.Search.PageSize)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache:   %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "⚙️  Crawling search results...\n")
	}

	// Create pipeline
	p := pipeline.NewPipeline(cfg, logger)

	report, err := p.RunSearch(ctx)
	if errors.Is(err, pipeline.ErrNoAPIKey) {
		return fmt.Errorf("search failed: set EDGARSCAN_SEARCH_API_KEY or search.api_key in the config file")
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Sampled %d filings\n", len(report.Records))
		fmt.Fprintf(os.Stderr, "✓ Fetched %d/%d documents\n", report.FetchedCount(), len(report.Documents))
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderReport(report, cfg.Output.JSONPath, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
