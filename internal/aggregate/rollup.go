package aggregate

import (
	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/model"
)

// Metric names
const (
	MetricTotalFilings       = "total_filings"
	MetricAIFilings          = "ai_filings"
	MetricFilings            = "filings"
	MetricBankruptcyMentions = "bankruptcy_mentions"
	MetricOfficerFilings     = "officer_filings"
)

// StateRollup counts filings and AI-mentioning filings per state
func StateRollup(records []model.EnrichedRecord, facts model.FactSet) *Table {
	t := NewTable("by_state")
	for _, r := range records {
		t.Add(r.State, MetricTotalFilings, 1)
		t.Add(r.State, MetricAIFilings, flag(facts.Flag(r.AccessionID, model.FactAISentences)))
	}
	return t
}

// EntityRollup counts filings, bankruptcy mentions and officer filings
// per entity
func EntityRollup(records []model.EnrichedRecord, facts model.FactSet) *Table {
	t := NewTable("by_entity")
	for _, r := range records {
		t.Add(r.EntityID, MetricFilings, 1)

		mentions := 0
		if f, ok := facts.Get(r.AccessionID, model.FactBankruptcyCount); ok {
			mentions = f.Count
		}
		t.Add(r.EntityID, MetricBankruptcyMentions, float64(mentions))
		t.Add(r.EntityID, MetricOfficerFilings, flag(isOfficerFiling(facts, r.AccessionID)))
	}
	return t
}

// FormFrequencies counts filings per (entity, form type)
func FormFrequencies(records []model.EnrichedRecord) []model.PairCount {
	return CountPairs(records,
		func(r model.EnrichedRecord) string { return r.EntityID },
		func(r model.EnrichedRecord) string { return r.FormType })
}

// TopicFrequencies counts filings per (entity, first topic). Records
// without a first-topic fact are skipped; an explicit Unknown topic counts.
func TopicFrequencies(records []model.EnrichedRecord, facts model.FactSet) []model.PairCount {
	var withTopic []model.EnrichedRecord
	for _, r := range records {
		if _, ok := facts.Get(r.AccessionID, model.FactFirstTopic); ok {
			withTopic = append(withTopic, r)
		}
	}
	return CountPairs(withTopic,
		func(r model.EnrichedRecord) string { return r.EntityID },
		func(r model.EnrichedRecord) string {
			f, _ := facts.Get(r.AccessionID, model.FactFirstTopic)
			return f.Text
		})
}

// EntityDates lists filing dates for one entity
type EntityDates struct {
	EntityID string   `json:"entity_id"`
	Dates    []string `json:"dates"`
}

// DelistingDates returns, per entity, the filed dates of filings whose
// topic mentions delisting. With allTopics every topic line is checked,
// otherwise only the first. Filings without a filed date are skipped.
func DelistingDates(records []model.EnrichedRecord, facts model.FactSet, allTopics bool) []EntityDates {
	var order []string
	dates := make(map[string][]string)

	for _, r := range records {
		if r.EntityID == "" || !mentionsDelisting(facts, r.AccessionID, allTopics) {
			continue
		}
		filed, ok := facts.Get(r.AccessionID, model.FactFiledDate)
		if !ok || !filed.Found {
			continue
		}
		if _, seen := dates[r.EntityID]; !seen {
			order = append(order, r.EntityID)
		}
		dates[r.EntityID] = append(dates[r.EntityID], filed.Text)
	}

	out := make([]EntityDates, 0, len(order))
	for _, id := range order {
		out = append(out, EntityDates{EntityID: id, Dates: dates[id]})
	}
	return out
}

func mentionsDelisting(facts model.FactSet, accessionID string, allTopics bool) bool {
	if !allTopics {
		f, ok := facts.Get(accessionID, model.FactFirstTopic)
		return ok && extract.Delisting.Mentions(f.Text)
	}
	f, ok := facts.Get(accessionID, model.FactAllTopics)
	if !ok {
		return false
	}
	for _, topic := range f.Items {
		if extract.Delisting.Mentions(topic) {
			return true
		}
	}
	return false
}

// OfficerTitleFrequencies counts officer filings per cleaned title, most
// frequent first
func OfficerTitleFrequencies(records []model.EnrichedRecord, facts model.FactSet) []Group {
	officers := officerFilings(records, facts)
	return ByValueDesc(Count(officers, func(r model.EnrichedRecord) string {
		f, _ := facts.Get(r.AccessionID, model.FactOfficerTitle)
		return f.Text
	}))
}

// DisposedByDate counts officer filings with a disposed (D) transaction
// per transaction date, in date order
func DisposedByDate(records []model.EnrichedRecord, facts model.FactSet) []Group {
	var disposed []model.EnrichedRecord
	for _, r := range officerFilings(records, facts) {
		if f, ok := facts.Get(r.AccessionID, model.FactTransactionCode); ok && f.Text == "D" {
			disposed = append(disposed, r)
		}
	}
	return ByKey(Count(disposed, func(r model.EnrichedRecord) string {
		f, _ := facts.Get(r.AccessionID, model.FactTransactionDate)
		return f.Text
	}))
}

func officerFilings(records []model.EnrichedRecord, facts model.FactSet) []model.EnrichedRecord {
	var out []model.EnrichedRecord
	for _, r := range records {
		if isOfficerFiling(facts, r.AccessionID) {
			out = append(out, r)
		}
	}
	return out
}

func isOfficerFiling(facts model.FactSet, accessionID string) bool {
	f, ok := facts.Get(accessionID, model.FactIsOfficer)
	return ok && f.Text == "1"
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
