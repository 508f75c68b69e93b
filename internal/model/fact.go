package model

// FactKind identifies which extractor produced a fact
type FactKind string

const (
	FactBusinessSection FactKind = "business_section" // Item 1. Business text span
	FactAISentences     FactKind = "ai_sentences"     // Sentences mentioning artificial intelligence
	FactFirstTopic      FactKind = "first_topic"      // First ITEM INFORMATION line
	FactAllTopics       FactKind = "all_topics"       // All ITEM INFORMATION lines
	FactFiledDate       FactKind = "filed_date"       // FILED AS OF DATE, 8 digits
	FactBankruptcyCount FactKind = "bankruptcy_count" // bankruptcy/bankruptcies occurrences
	FactIsOfficer       FactKind = "is_officer"       // Form 4 isOfficer flag
	FactOfficerTitle    FactKind = "officer_title"    // Form 4 officerTitle, cleaned
	FactTransactionCode FactKind = "transaction_code" // Form 4 acquired/disposed code
	FactTransactionDate FactKind = "transaction_date" // Form 4 transaction date, YYYYMMDD
)

// Fact is one extracted value. Which of Text, Items or Count is meaningful
// depends on Kind. Found is false when the extractor returned its sentinel.
type Fact struct {
	AccessionID string   `json:"accession_id"`
	Kind        FactKind `json:"kind"`
	Text        string   `json:"text,omitempty"`
	Items       []string `json:"items,omitempty"`
	Count       int      `json:"count,omitempty"`
	Found       bool     `json:"found"`
}

// FactSet indexes facts by accession and kind
type FactSet map[string]map[FactKind]Fact

// Add stores a fact, replacing any previous fact of the same kind
func (s FactSet) Add(f Fact) {
	byKind, ok := s[f.AccessionID]
	if !ok {
		byKind = make(map[FactKind]Fact)
		s[f.AccessionID] = byKind
	}
	byKind[f.Kind] = f
}

// Get returns the fact for an accession and kind
func (s FactSet) Get(accessionID string, kind FactKind) (Fact, bool) {
	f, ok := s[accessionID][kind]
	return f, ok
}

// Flag reports whether a list or count fact is present and non-empty
func (s FactSet) Flag(accessionID string, kind FactKind) bool {
	f, ok := s.Get(accessionID, kind)
	if !ok || !f.Found {
		return false
	}
	return len(f.Items) > 0 || f.Count > 0 || f.Text != ""
}
