package enrich

import (
	"context"

	"github.com/ppiankov/edgarscan/internal/model"
	"go.uber.org/zap"
)

// Enrich merges a profile into a record. The state is the first non-empty
// of incorporation state, business address state and mailing address
// state. The profile name replaces the record name only when present.
func Enrich(record model.FilingRecord, profile model.Profile) model.EnrichedRecord {
	out := model.EnrichedRecord{
		FilingRecord: record,
		IndustryCode: profile.IndustryCode,
		State:        firstNonEmpty(profile.StateOfIncorporation, profile.Business.State, profile.Mailing.State),
		City:         profile.Business.City,
		Zip:          profile.Business.Zip,
	}
	if profile.Name != "" {
		out.EntityName = profile.Name
	}
	return out
}

// Enricher enriches record batches through a ProfileLookup
type Enricher struct {
	lookup ProfileLookup
	logger *zap.Logger
}

// NewEnricher creates a new enricher
func NewEnricher(lookup ProfileLookup, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{lookup: lookup, logger: logger}
}

// EnrichAll enriches every record in order. A missing profile leaves the
// profile-derived fields empty; the batch is never aborted. Once ctx is
// done the remaining records are passed through with empty profiles.
func (e *Enricher) EnrichAll(ctx context.Context, records []model.FilingRecord) []model.EnrichedRecord {
	out := make([]model.EnrichedRecord, 0, len(records))
	missing := 0
	for _, r := range records {
		var profile model.Profile
		if ctx.Err() == nil {
			profile = e.lookup.Lookup(ctx, r.EntityID)
		}
		if profile.IsEmpty() {
			missing++
		}
		out = append(out, Enrich(r, profile))
	}

	e.logger.Info("enrichment finished",
		zap.Int("records", len(records)),
		zap.Int("without_profile", missing))
	return out
}
