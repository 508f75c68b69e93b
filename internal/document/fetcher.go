// Package document downloads filing bodies and selects the sub-document
// the extractors work on.
package document

import (
	"context"
	"time"

	"github.com/ppiankov/edgarscan/internal/cache"
	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/ppiankov/edgarscan/internal/worker"
	"go.uber.org/zap"
)

// Fetcher downloads filing documents. Failures never propagate: they give
// a FilingDocument with Status failed and empty text.
type Fetcher struct {
	fetcher *fetch.Fetcher
	cache   cache.Cache
	ttl     time.Duration
	workers int
	logger  *zap.Logger
}

// NewFetcher creates a document fetcher. A nil cache disables caching.
func NewFetcher(fetcher *fetch.Fetcher, c cache.Cache, ttl time.Duration, workers int, logger *zap.Logger) *Fetcher {
	if c == nil {
		c = cache.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{fetcher: fetcher, cache: c, ttl: ttl, workers: workers, logger: logger}
}

// Fetch downloads uri and selects targetDocType from it
func (f *Fetcher) Fetch(ctx context.Context, accessionID, uri, targetDocType string) model.FilingDocument {
	doc := model.FilingDocument{AccessionID: accessionID}
	if uri == "" {
		doc.Status = model.FetchFailed
		doc.Reason = "no document link"
		return doc
	}

	key := cache.Key("document", uri, targetDocType)
	if data, ok := f.cache.Get(key); ok {
		doc.Status = model.FetchOK
		doc.Text = string(data)
		return doc
	}

	res, err := f.fetcher.GetWithRetry(ctx, uri)
	if err != nil {
		f.logger.Warn("error fetching filing",
			zap.String("accession", accessionID),
			zap.String("url", uri),
			zap.Int("status", fetch.StatusCode(err)),
			zap.Error(err))
		doc.Status = model.FetchFailed
		doc.Reason = err.Error()
		return doc
	}

	doc.Status = model.FetchOK
	doc.Text = Select(res.Text(), targetDocType)
	if doc.Text != "" {
		if err := f.cache.Set(key, []byte(doc.Text), f.ttl); err != nil {
			f.logger.Debug("cache write failed", zap.String("url", uri), zap.Error(err))
		}
	}
	return doc
}

// BatchFetch fetches the document of every record once per accession, in
// first-seen order. With one worker the records are fetched strictly one
// after another.
func (f *Fetcher) BatchFetch(ctx context.Context, records []model.FilingRecord, targetDocType string) []model.FilingDocument {
	links := make(map[string]string, len(records))
	var keys []string
	for _, r := range records {
		if _, ok := links[r.AccessionID]; !ok {
			links[r.AccessionID] = r.DocumentLink
			keys = append(keys, r.AccessionID)
		}
	}

	results := worker.Dedupe(ctx, f.workers, keys, func(ctx context.Context, accessionID string) model.FilingDocument {
		return f.Fetch(ctx, accessionID, links[accessionID], targetDocType)
	})

	docs := make([]model.FilingDocument, 0, len(keys))
	for i, accessionID := range keys {
		doc, ok := results[accessionID]
		if !ok || doc.AccessionID == "" {
			doc = model.FilingDocument{AccessionID: accessionID, Status: model.FetchFailed, Reason: "cancelled"}
		}
		f.logger.Debug("processed filing",
			zap.Int("n", i+1),
			zap.Int("of", len(keys)),
			zap.String("accession", accessionID),
			zap.String("status", string(doc.Status)))
		docs = append(docs, doc)
	}
	return docs
}
