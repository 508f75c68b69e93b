package search

import (
	"context"
	"time"

	"github.com/ppiankov/edgarscan/internal/model"
	"go.uber.org/zap"
)

// pageSleepFunc is the pause between page requests (injectable for tests)
var pageSleepFunc = time.Sleep

// Crawler accumulates pages from a PageSource until a target is reached
type Crawler struct {
	source    PageSource
	sampler   *Sampler
	pageDelay time.Duration
	logger    *zap.Logger
}

// NewCrawler creates a crawler. A nil sampler uses a time-seeded one.
func NewCrawler(source PageSource, sampler *Sampler, pageDelay time.Duration, logger *zap.Logger) *Crawler {
	if sampler == nil {
		sampler = NewSampler(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{source: source, sampler: sampler, pageDelay: pageDelay, logger: logger}
}

// Fetch collects pages and samples the result down to exactly
// min(available, targetCount) records
func (c *Crawler) Fetch(ctx context.Context, query string, targetCount, pageSize int) []model.FilingRecord {
	return c.sampler.Reduce(c.Collect(ctx, query, targetCount, pageSize), targetCount)
}

// Collect requests pages at offsets 0, pageSize, 2*pageSize... and stops
// once targetCount records are held, the source is exhausted, or a page
// fails. A failed page is not retried. The result may exceed targetCount
// by up to one page.
func (c *Crawler) Collect(ctx context.Context, query string, targetCount, pageSize int) []model.FilingRecord {
	if targetCount <= 0 || pageSize <= 0 {
		return nil
	}

	var records []model.FilingRecord
	for from := 0; len(records) < targetCount; from += pageSize {
		if from > 0 {
			pageSleepFunc(c.pageDelay)
		}
		if ctx.Err() != nil {
			c.logger.Info("crawl cancelled", zap.Int("collected", len(records)))
			break
		}

		c.logger.Debug("fetching page", zap.Int("from", from), zap.Int("size", pageSize))
		page, err := c.source.FetchPage(ctx, query, from, pageSize)
		if err != nil {
			c.logger.Warn("page request failed, stopping crawl",
				zap.Int("from", from),
				zap.Int("collected", len(records)),
				zap.Error(err))
			break
		}
		if len(page.Records) == 0 {
			break
		}
		records = append(records, page.Records...)

		if len(page.Records) < pageSize {
			break
		}
		if page.Total >= 0 && from+len(page.Records) >= page.Total {
			break
		}
	}

	c.logger.Info("crawl finished", zap.Int("collected", len(records)), zap.Int("target", targetCount))
	return records
}
