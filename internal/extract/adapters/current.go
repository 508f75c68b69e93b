package adapters

import (
	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/model"
)

// CurrentAdapter handles 8-K current reports from their SEC header
type CurrentAdapter struct{}

// NewCurrentAdapter creates a new current report adapter
func NewCurrentAdapter() *CurrentAdapter {
	return &CurrentAdapter{}
}

// Name returns the adapter name
func (a *CurrentAdapter) Name() string {
	return "current"
}

// CanHandle checks for an 8-K
func (a *CurrentAdapter) CanHandle(formType string) bool {
	return baseForm(formType) == "8-K"
}

// Extract returns the item topics, the filing date and the bankruptcy count
func (a *CurrentAdapter) Extract(accessionID, text string) []model.Fact {
	return []model.Fact{
		textFact(accessionID, model.FactFirstTopic, extract.FirstTopic(text), extract.UnknownTopic),
		listFact(accessionID, model.FactAllTopics, extract.AllTopics(text)),
		textFact(accessionID, model.FactFiledDate, extract.FiledDate(text), ""),
		countFact(accessionID, model.FactBankruptcyCount, extract.Bankruptcy.Count(text)),
	}
}
