package adapters

import (
	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/model"
)

// InsiderAdapter handles Form 4 ownership reports. It needs the raw XML
// body, so documents for it are fetched untouched.
type InsiderAdapter struct{}

// NewInsiderAdapter creates a new insider transaction adapter
func NewInsiderAdapter() *InsiderAdapter {
	return &InsiderAdapter{}
}

// Name returns the adapter name
func (a *InsiderAdapter) Name() string {
	return "insider"
}

// CanHandle checks for a Form 4
func (a *InsiderAdapter) CanHandle(formType string) bool {
	return baseForm(formType) == "4"
}

// Extract returns the officer flag and title and the first transaction's
// code and date
func (a *InsiderAdapter) Extract(accessionID, text string) []model.Fact {
	return []model.Fact{
		textFact(accessionID, model.FactIsOfficer, extract.IsOfficer(text), ""),
		textFact(accessionID, model.FactOfficerTitle, extract.OfficerTitle(text), extract.UnknownTitle),
		textFact(accessionID, model.FactTransactionCode, extract.TransactionCode(text), ""),
		textFact(accessionID, model.FactTransactionDate, extract.TransactionDate(text), ""),
	}
}
