// Package adapters selects the extractor set for a filing by form type.
package adapters

import (
	"strings"

	"github.com/ppiankov/edgarscan/internal/model"
)

// Adapter extracts the facts relevant to one family of forms
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter handles the given form type
	CanHandle(formType string) bool

	// Extract runs the adapter's extractors over a document's text
	Extract(accessionID, text string) []model.Fact
}

// Registry manages form adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewAnnualAdapter())
	registry.Register(NewCurrentAdapter())
	registry.Register(NewInsiderAdapter())

	// Set generic adapter as fallback
	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter. Earlier registrations win.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the adapter for a form type, falling back to generic
func (r *Registry) FindAdapter(formType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(formType) {
			return adapter
		}
	}
	return r.generic
}

// Extract runs the matching adapter over a document. Documents that were
// not fetched produce no facts.
func (r *Registry) Extract(doc model.FilingDocument, formType string) []model.Fact {
	if !doc.OK() {
		return nil
	}
	return r.FindAdapter(formType).Extract(doc.AccessionID, doc.Text)
}

// baseForm strips an amendment suffix, so "10-K/A" handles as "10-K"
func baseForm(formType string) string {
	f := strings.ToUpper(strings.TrimSpace(formType))
	return strings.TrimSuffix(f, "/A")
}

func formSet(forms ...string) map[string]bool {
	set := make(map[string]bool, len(forms))
	for _, f := range forms {
		set[baseForm(f)] = true
	}
	return set
}

func textFact(accessionID string, kind model.FactKind, value, sentinel string) model.Fact {
	return model.Fact{AccessionID: accessionID, Kind: kind, Text: value, Found: value != sentinel}
}

func listFact(accessionID string, kind model.FactKind, items []string) model.Fact {
	return model.Fact{AccessionID: accessionID, Kind: kind, Items: items, Found: len(items) > 0}
}

func countFact(accessionID string, kind model.FactKind, n int) model.Fact {
	return model.Fact{AccessionID: accessionID, Kind: kind, Count: n, Found: n > 0}
}
