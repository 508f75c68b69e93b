package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_StateFallbackOrder(t *testing.T) {
	rec := model.FilingRecord{EntityID: "1", EntityName: "ACME CORP"}

	tests := []struct {
		name    string
		profile model.Profile
		want    string
	}{
		{"incorporation wins", model.Profile{StateOfIncorporation: "DE", Business: model.Address{State: "CA"}, Mailing: model.Address{State: "NY"}}, "DE"},
		{"business next", model.Profile{Business: model.Address{State: "CA"}, Mailing: model.Address{State: "NY"}}, "CA"},
		{"mailing only", model.Profile{Mailing: model.Address{State: "NY"}}, "NY"},
		{"no state fields", model.Profile{Name: "Acme"}, ""},
		{"empty profile", model.Profile{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Enrich(rec, tt.profile).State)
		})
	}
}

func TestEnrich_NameFallback(t *testing.T) {
	rec := model.FilingRecord{EntityID: "1", EntityName: "ACME CORP /DE/"}

	assert.Equal(t, "Acme Corp", Enrich(rec, model.Profile{Name: "Acme Corp"}).EntityName)
	assert.Equal(t, "ACME CORP /DE/", Enrich(rec, model.Profile{}).EntityName)
}

func TestEnrich_EmptyProfileDegradesToEmptyFields(t *testing.T) {
	rec := model.FilingRecord{EntityID: "1", AccessionID: "a-1"}
	got := Enrich(rec, model.Profile{})

	assert.Equal(t, rec, got.FilingRecord)
	assert.Empty(t, got.IndustryCode)
	assert.Empty(t, got.City)
	assert.Empty(t, got.Zip)
}

func TestPadCIK(t *testing.T) {
	got, err := PadCIK("320193")
	require.NoError(t, err)
	assert.Equal(t, "0000320193", got)

	_, err = PadCIK("")
	assert.Error(t, err)
	_, err = PadCIK("12a")
	assert.Error(t, err)
	_, err = PadCIK("12345678901")
	assert.Error(t, err)
}

func TestParseSubmission_Shapes(t *testing.T) {
	nested := `{
		"name": "Apple Inc.",
		"sic": "3571",
		"stateOfIncorporation": "",
		"addresses": {
			"mailing": {"city": "CUPERTINO", "stateOrCountry": "CA", "zipCode": "95014"},
			"business": {"city": "CUPERTINO", "stateOrCountry": "CA", "zipCode": "95014"}
		}
	}`
	p, err := ParseSubmission([]byte(nested))
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", p.Name)
	assert.Equal(t, "3571", p.IndustryCode)
	assert.Equal(t, model.Address{State: "CA", City: "CUPERTINO", Zip: "95014"}, p.Business)

	flat := `{"name": "Flat Co", "mailingAddress": {"state": "TX", "city": "Austin", "zip": "73301"}}`
	p, err = ParseSubmission([]byte(flat))
	require.NoError(t, err)
	assert.Equal(t, "TX", p.Mailing.State)
	assert.Equal(t, "TX", Enrich(model.FilingRecord{}, p).State)

	_, err = ParseSubmission([]byte(`{"name": `))
	assert.Error(t, err)
}

func TestParseSubmission_TolerantScalars(t *testing.T) {
	doc := `{
		"name": "Numbered Bank",
		"sic": 6022,
		"stateOfIncorporation": "DE",
		"addresses": {"business": {"city": null, "stateOrCountry": "NY", "zipCode": 10001}},
		"ein": {"unexpected": true}
	}`
	p, err := ParseSubmission([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "6022", p.IndustryCode)
	assert.Equal(t, "DE", p.StateOfIncorporation)
	assert.Equal(t, model.Address{State: "NY", Zip: "10001"}, p.Business)

	p, err = ParseSubmission([]byte(`{"name": "Odd Co", "sic": false, "stateOfIncorporation": ["DE"]}`))
	require.NoError(t, err)
	assert.Equal(t, "Odd Co", p.Name)
	assert.Empty(t, p.IndustryCode)
	assert.Empty(t, p.StateOfIncorporation)
}

func newClient(t *testing.T, handler http.HandlerFunc) *SubmissionsClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	f := fetch.NewFetcher(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test", MaxRetries: 1}, model.RateLimitingConfig{})
	return NewSubmissionsClient(f, server.URL+"/submissions/CIK%s.json", nil, nil)
}

func TestSubmissionsClient_LookupMemoizes(t *testing.T) {
	var hits atomic.Int32
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/submissions/CIK0000000042.json", r.URL.Path)
		_, _ = fmt.Fprint(w, `{"name": "Answer Corp", "stateOfIncorporation": "DE"}`)
	})

	for i := 0; i < 3; i++ {
		p := client.Lookup(context.Background(), "42")
		assert.Equal(t, "Answer Corp", p.Name)
		assert.Equal(t, "DE", p.StateOfIncorporation)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestSubmissionsClient_LookupNumericSIC(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"name": "Numbered Bank", "sic": 6022, "stateOfIncorporation": "DE"}`)
	})

	p := client.Lookup(context.Background(), "719739")
	assert.Equal(t, "6022", p.IndustryCode)
	assert.Equal(t, "DE", p.StateOfIncorporation)
}

func TestSubmissionsClient_FailuresGiveEmptyProfile(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "0000000404"):
			w.WriteHeader(http.StatusNotFound)
		default:
			_, _ = fmt.Fprint(w, `not json`)
		}
	})

	assert.True(t, client.Lookup(context.Background(), "404").IsEmpty())
	assert.True(t, client.Lookup(context.Background(), "7").IsEmpty())
	assert.True(t, client.Lookup(context.Background(), "not-a-cik").IsEmpty())
}

type stubLookup map[string]model.Profile

func (s stubLookup) Lookup(_ context.Context, id string) model.Profile { return s[id] }

func TestEnricher_EnrichAllNeverAborts(t *testing.T) {
	lookup := stubLookup{
		"1": {Name: "One", Business: model.Address{State: "CA"}},
		"3": {Name: "Three", Mailing: model.Address{State: "NY"}},
	}
	records := []model.FilingRecord{
		{EntityID: "1", EntityName: "one", AccessionID: "a"},
		{EntityID: "2", EntityName: "two", AccessionID: "b"},
		{EntityID: "3", EntityName: "three", AccessionID: "c"},
		{EntityID: "1", EntityName: "one", AccessionID: "d"},
	}

	got := NewEnricher(lookup, nil).EnrichAll(context.Background(), records)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"CA", "", "NY", "CA"}, []string{got[0].State, got[1].State, got[2].State, got[3].State})
	assert.Equal(t, "two", got[1].EntityName)
	assert.Equal(t, "d", got[3].AccessionID)
}
