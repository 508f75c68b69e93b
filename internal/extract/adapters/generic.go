package adapters

import (
	"github.com/ppiankov/edgarscan/internal/extract"
	"github.com/ppiankov/edgarscan/internal/model"
)

// GenericAdapter is the fallback for form types without a dedicated adapter
type GenericAdapter struct{}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(formType string) bool {
	return true
}

// Extract returns the filing date and the bankruptcy count
func (a *GenericAdapter) Extract(accessionID, text string) []model.Fact {
	return []model.Fact{
		textFact(accessionID, model.FactFiledDate, extract.FiledDate(text), ""),
		countFact(accessionID, model.FactBankruptcyCount, extract.Bankruptcy.Count(text)),
	}
}
