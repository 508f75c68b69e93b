package adapters

import (
	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/model"
)

// AnnualAdapter handles the 10-K family: the Item 1 business section and
// sentences about artificial intelligence
type AnnualAdapter struct {
	forms map[string]bool
}

// NewAnnualAdapter creates a new annual report adapter
func NewAnnualAdapter() *AnnualAdapter {
	return &AnnualAdapter{forms: formSet(model.AnnualReportForms...)}
}

// Name returns the adapter name
func (a *AnnualAdapter) Name() string {
	return "annual"
}

// CanHandle checks for a 10-K family form
func (a *AnnualAdapter) CanHandle(formType string) bool {
	return a.forms[baseForm(formType)]
}

// Extract returns the business section and AI sentences
func (a *AnnualAdapter) Extract(accessionID, text string) []model.Fact {
	return []model.Fact{
		textFact(accessionID, model.FactBusinessSection, extract.ItemOneBusiness.Extract(text), ""),
		listFact(accessionID, model.FactAISentences, extract.AISentences(text)),
	}
}
