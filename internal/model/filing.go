package model

import "time"

// FilingRecord is a filing summary as returned by the search endpoint or the quarterly index
type FilingRecord struct {
	EntityID     string    `json:"entity_id"`     // Registrant key (CIK), unpadded
	EntityName   string    `json:"entity_name"`   // Company name as filed
	FormType     string    `json:"form_type"`     // e.g. "10-K", "8-K", "4"
	FiledAt      time.Time `json:"filed_at"`      // Zero if the source date could not be parsed
	AccessionID  string    `json:"accession_id"`  // Unique per filing, e.g. "0000719739-23-000012"
	DocumentLink string    `json:"document_link"` // Filing detail page or raw text URL
}

// EnrichedRecord is a FilingRecord merged with the filer's profile
type EnrichedRecord struct {
	FilingRecord
	IndustryCode string `json:"industry_code,omitempty"` // SIC code
	State        string `json:"state,omitempty"`         // Resolved through the state fallback chain
	City         string `json:"city,omitempty"`          // Business address city
	Zip          string `json:"zip,omitempty"`           // Business address zip
}

// Address is a postal address from a filer profile
type Address struct {
	State string `json:"state,omitempty"`
	City  string `json:"city,omitempty"`
	Zip   string `json:"zip,omitempty"`
}

// Profile is a filer profile from the submissions endpoint.
// The zero value means "no profile" and enriches every field to "".
type Profile struct {
	Name                 string  `json:"name,omitempty"`
	IndustryCode         string  `json:"industry_code,omitempty"`
	StateOfIncorporation string  `json:"state_of_incorporation,omitempty"`
	Business             Address `json:"business,omitempty"`
	Mailing              Address `json:"mailing,omitempty"`
}

// IsEmpty reports whether the profile carries no data
func (p Profile) IsEmpty() bool {
	return p == Profile{}
}

// FetchStatus is the terminal state of a document fetch
type FetchStatus string

const (
	FetchOK     FetchStatus = "ok"
	FetchFailed FetchStatus = "failed"
)

// FilingDocument is the text of one filing. A failed fetch is a valid
// terminal state: Text is empty and Reason says why.
type FilingDocument struct {
	AccessionID string      `json:"accession_id"`
	Text        string      `json:"-"`
	Status      FetchStatus `json:"status"`
	Reason      string      `json:"reason,omitempty"`
}

// OK reports whether the document was fetched with a non-empty body
func (d FilingDocument) OK() bool {
	return d.Status == FetchOK && d.Text != ""
}

// IndexEntry is one row of a quarterly master index listing
type IndexEntry struct {
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	FormType   string `json:"form_type"`
	DateFiled  string `json:"date_filed"` // YYYY-MM-DD as listed
	FileName   string `json:"file_name"`  // Path relative to the archives root
}
