package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/edgarscan/internal/aggregate"
	"github.com/ppiankov/edgarscan/internal/cache"
	"github.com/ppiankov/edgarscan/internal/document"
	"github.com/ppiankov/edgarscan/internal/enrich"
	"github.com/ppiankov/edgarscan/internal/extract/adapters"
	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/index"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/search"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoAPIKey is returned by RunSearch when no search API key is configured
var ErrNoAPIKey = eris.New("search API key is not set")

// Pipeline orchestrates a complete run
type Pipeline struct {
	fetcher   *fetch.Fetcher
	crawler   *search.Crawler
	enricher  *enrich.Enricher
	documents *document.Fetcher
	index     *index.Client
	registry  *adapters.Registry
	renderer  *Renderer
	config    *model.Config
	logger    *zap.Logger
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	fetcher := fetch.NewFetcher(cfg.HTTP, cfg.RateLimiting, fetch.WithLogger(logger.Named("fetch")))
	responses := cache.New(cfg.Cache)

	// Profiles are memoized for the run even with the response cache off
	var profileCache cache.Cache
	if cfg.Cache.Enabled {
		profileCache = responses
	}

	source := search.NewSecAPISource(fetcher, cfg.Search.Endpoint, cfg.Search.APIKey)
	profiles := enrich.NewSubmissionsClient(fetcher, cfg.Profile.Endpoint, profileCache, logger.Named("enrich"))

	return &Pipeline{
		fetcher:   fetcher,
		crawler:   search.NewCrawler(source, search.NewSampler(cfg.Sampling.Seed), cfg.Search.PageDelay, logger.Named("search")),
		enricher:  enrich.NewEnricher(profiles, logger.Named("enrich")),
		documents: document.NewFetcher(fetcher, responses, cfg.Cache.DiskTTL, cfg.Concurrency.Workers, logger.Named("document")),
		index:     index.NewClient(fetcher, cfg.Index, cfg.Document.ArchivesBaseURL, logger.Named("index")),
		registry:  adapters.NewRegistry(),
		renderer:  NewRenderer(os.Stdout),
		config:    cfg,
		logger:    logger,
	}
}

// SetOutput redirects the printed summary
func (p *Pipeline) SetOutput(w io.Writer) {
	p.renderer = NewRenderer(w)
}

// RunSearch crawls the search endpoint for the configured query and
// reduces the documents it finds to per-state and per-entity rollups
func (p *Pipeline) RunSearch(ctx context.Context) (*model.Report, error) {
	cfg := p.config
	if cfg.Search.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	report := newReport()

	// 1. Crawl and sample
	records := p.crawler.Fetch(ctx, cfg.Search.Query, cfg.Search.TargetCount, cfg.Search.PageSize)
	if err := ctx.Err(); err != nil && len(records) == 0 {
		return nil, eris.Wrap(err, "search")
	}
	p.logger.Info("records sampled", zap.Int("count", len(records)))

	// 2. Enrich with filer profiles
	report.Records = p.enricher.EnrichAll(ctx, records)

	// 3. Fetch documents, keeping the target sub-document
	report.Documents = p.documents.BatchFetch(ctx, records, cfg.Document.TargetDocType)

	// 4. Extract facts
	report.Facts = p.extractFacts(records, report.Documents)

	// 5. Roll up
	report.Tables = []model.Table{
		aggregate.StateRollup(report.Records, report.Facts).Model(),
		aggregate.EntityRollup(report.Records, report.Facts).Model(),
	}

	return report, nil
}

// RunIndex lists the quarterly indexes for periods, keeps the entries
// matching entityIDs and forms (empty means all) and analyses the raw
// filing text
func (p *Pipeline) RunIndex(ctx context.Context, periods []index.Period, entityIDs, forms []string) (*model.Report, error) {
	if len(periods) == 0 {
		return nil, eris.New("no index periods given")
	}
	report := newReport()

	// 1. Download and filter listings
	entries := index.Filter(p.index.Listings(ctx, periods), entityIDs, forms)
	if err := ctx.Err(); err != nil && len(entries) == 0 {
		return nil, eris.Wrap(err, "index")
	}
	records := p.index.Records(entries)
	p.logger.Info("index entries selected", zap.Int("count", len(records)))

	// 2. Index rows already carry the filer name; no profile lookups
	report.Records = make([]model.EnrichedRecord, 0, len(records))
	for _, r := range records {
		report.Records = append(report.Records, enrich.Enrich(r, model.Profile{}))
	}

	// 3. Fetch documents in raw mode
	report.Documents = p.documents.BatchFetch(ctx, records, "")

	// 4. Extract facts
	report.Facts = p.extractFacts(records, report.Documents)

	// 5. Roll up
	recs, facts := report.Records, report.Facts
	disposed := aggregate.DisposedByDate(recs, facts)
	report.Tables = []model.Table{
		aggregate.EntityRollup(recs, facts).Model(),
		aggregate.PairTable("form_frequencies", aggregate.FormFrequencies(recs)),
		aggregate.PairTable("topic_frequencies", aggregate.TopicFrequencies(recs, facts)),
		delistingTable("delisting_dates_first_topic", aggregate.DelistingDates(recs, facts, false)),
		delistingTable("delisting_dates", aggregate.DelistingDates(recs, facts, true)),
		aggregate.GroupTable("officer_titles", aggregate.MetricOfficerFilings, aggregate.OfficerTitleFrequencies(recs, facts)),
		aggregate.GroupTable("disposed_by_date", aggregate.MetricOfficerFilings, disposed),
		peakTable("peak_disposal_date", aggregate.MetricOfficerFilings, disposed),
	}

	return report, nil
}

// extractFacts runs the form adapter of each record over its document.
// Failed documents contribute nothing.
func (p *Pipeline) extractFacts(records []model.FilingRecord, docs []model.FilingDocument) model.FactSet {
	forms := make(map[string]string, len(records))
	for _, r := range records {
		if _, ok := forms[r.AccessionID]; !ok {
			forms[r.AccessionID] = r.FormType
		}
	}

	facts := model.FactSet{}
	failed := 0
	for _, doc := range docs {
		if !doc.OK() {
			failed++
			continue
		}
		for _, f := range p.registry.Extract(doc, forms[doc.AccessionID]) {
			facts.Add(f)
		}
	}
	if failed > 0 {
		p.logger.Warn("documents without text", zap.Int("count", failed), zap.Int("total", len(docs)))
	}
	return facts
}

// peakTable holds the single largest group, or no rows when groups is empty
func peakTable(name, metric string, groups []aggregate.Group) model.Table {
	peak, ok := aggregate.Peak(groups)
	if !ok {
		return aggregate.GroupTable(name, metric, nil)
	}
	return aggregate.GroupTable(name, metric, []aggregate.Group{peak})
}

// delistingTable lists one row per (entity, filed date) of a delisting filing
func delistingTable(name string, dates []aggregate.EntityDates) model.Table {
	t := aggregate.NewTable(name)
	for _, d := range dates {
		for _, date := range d.Dates {
			t.Add(d.EntityID, date, 1)
		}
	}
	return t.Model()
}

func newReport() *model.Report {
	return &model.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Facts:     model.FactSet{},
	}
}

// RenderReport writes the report as JSON to jsonPath (if set) and prints
// a summary
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, verbose bool) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return eris.Wrap(err, "render JSON")
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	return p.renderer.RenderSummary(report)
}
