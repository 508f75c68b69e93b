// Package search crawls a paginated filings search endpoint and samples the
// result down to a target count.
package search

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/rotisserie/eris"
)

// Page is one page of search results. Total is the hit count reported by
// the source, or -1 when the source does not report one.
type Page struct {
	Records []model.FilingRecord
	Total   int
}

// PageSource returns one page of filings sorted by filing date descending
type PageSource interface {
	FetchPage(ctx context.Context, query string, from, size int) (Page, error)
}

// SecAPISource queries the sec-api.io full-text query endpoint
type SecAPISource struct {
	fetcher  *fetch.Fetcher
	endpoint string
	apiKey   string
}

// NewSecAPISource creates a source for the given endpoint and API token
func NewSecAPISource(fetcher *fetch.Fetcher, endpoint, apiKey string) *SecAPISource {
	return &SecAPISource{fetcher: fetcher, endpoint: endpoint, apiKey: apiKey}
}

type queryRequest struct {
	Query struct {
		QueryString struct {
			Query string `json:"query"`
		} `json:"query_string"`
	} `json:"query"`
	From string      `json:"from"`
	Size string      `json:"size"`
	Sort []sortOrder `json:"sort"`
}

type sortOrder map[string]map[string]string

type queryResponse struct {
	Total   json.RawMessage `json:"total"`
	Filings []filingHit     `json:"filings"`
}

type filingHit struct {
	CIK                 string `json:"cik"`
	CompanyName         string `json:"companyName"`
	FormType            string `json:"formType"`
	FiledAt             string `json:"filedAt"`
	AccessionNo         string `json:"accessionNo"`
	LinkToFilingDetails string `json:"linkToFilingDetails"`
	LinkToTxt           string `json:"linkToTxt"`
}

// FetchPage posts one query page. Any transport or decode failure is
// returned to the crawler, which treats it as exhaustion.
func (s *SecAPISource) FetchPage(ctx context.Context, query string, from, size int) (Page, error) {
	var req queryRequest
	req.Query.QueryString.Query = query
	req.From = strconv.Itoa(from)
	req.Size = strconv.Itoa(size)
	req.Sort = []sortOrder{{"filedAt": {"order": "desc"}}}

	res, err := s.fetcher.PostJSON(ctx, s.queryURL(), req)
	if err != nil {
		return Page{}, eris.Wrapf(err, "search page at offset %d", from)
	}

	var resp queryResponse
	if err := json.Unmarshal(res.Body, &resp); err != nil {
		return Page{}, eris.Wrapf(err, "decode search page at offset %d", from)
	}

	page := Page{Total: parseTotal(resp.Total)}
	for _, hit := range resp.Filings {
		page.Records = append(page.Records, hit.record())
	}
	return page, nil
}

func (s *SecAPISource) queryURL() string {
	if s.apiKey == "" {
		return s.endpoint
	}
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return s.endpoint
	}
	q := u.Query()
	q.Set("token", s.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

func (h filingHit) record() model.FilingRecord {
	link := h.LinkToFilingDetails
	if link == "" {
		link = h.LinkToTxt
	}
	return model.FilingRecord{
		EntityID:     strings.TrimLeft(strings.TrimSpace(h.CIK), "0"),
		EntityName:   strings.TrimSpace(h.CompanyName),
		FormType:     strings.TrimSpace(h.FormType),
		FiledAt:      parseFiledAt(h.FiledAt),
		AccessionID:  strings.TrimSpace(h.AccessionNo),
		DocumentLink: link,
	}
}

// parseFiledAt accepts RFC 3339 timestamps and plain dates; anything else
// yields the zero time
func parseFiledAt(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "20060102"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseTotal reads either a bare number or an {"value": n} object
func parseTotal(raw json.RawMessage) int {
	if len(raw) == 0 {
		return -1
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return -1
}
