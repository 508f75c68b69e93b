// Package enrich merges filer profiles from the submissions endpoint into
// filing records.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/edgarscan/internal/cache"
	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ProfileLookup resolves an entity ID to its profile. Failures yield the
// zero Profile.
type ProfileLookup interface {
	Lookup(ctx context.Context, entityID string) model.Profile
}

// SubmissionsClient looks profiles up on data.sec.gov
type SubmissionsClient struct {
	fetcher  *fetch.Fetcher
	endpoint string // fmt template taking the padded CIK
	cache    cache.Cache
	logger   *zap.Logger
}

// NewSubmissionsClient creates a client. A nil cache gets a private
// in-memory one so each entity is fetched at most once per run.
func NewSubmissionsClient(fetcher *fetch.Fetcher, endpoint string, c cache.Cache, logger *zap.Logger) *SubmissionsClient {
	if c == nil {
		c = cache.NewMemoryCache(0, 10*time.Minute)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionsClient{fetcher: fetcher, endpoint: endpoint, cache: c, logger: logger}
}

// Lookup fetches the profile for entityID. Non-200 responses, transport
// errors and malformed JSON all give the zero Profile. Misses are cached
// too, so a failing entity is not requested again.
func (c *SubmissionsClient) Lookup(ctx context.Context, entityID string) model.Profile {
	padded, err := PadCIK(entityID)
	if err != nil {
		c.logger.Warn("invalid entity id", zap.String("entity_id", entityID), zap.Error(err))
		return model.Profile{}
	}

	key := cache.Key("profile", padded)
	var cached model.Profile
	if cache.GetJSON(c.cache, key, &cached) {
		return cached
	}

	profile, err := c.fetch(ctx, padded)
	if err != nil {
		c.logger.Warn("unable to fetch submission data",
			zap.String("entity_id", entityID),
			zap.Int("status", fetch.StatusCode(err)),
			zap.Error(err))
		profile = model.Profile{}
	}
	if ctx.Err() == nil {
		_ = cache.SetJSON(c.cache, key, profile, 0)
	}
	return profile
}

func (c *SubmissionsClient) fetch(ctx context.Context, padded string) (model.Profile, error) {
	var s submission
	if err := c.fetcher.GetJSON(ctx, fmt.Sprintf(c.endpoint, padded), &s); err != nil {
		return model.Profile{}, err
	}
	return s.profile(), nil
}

// PadCIK zero-pads a numeric entity ID to ten digits
func PadCIK(entityID string) (string, error) {
	id := strings.TrimSpace(entityID)
	if id == "" {
		return "", eris.New("empty entity id")
	}
	if len(id) > 10 {
		return "", eris.Errorf("entity id %q longer than 10 digits", id)
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", eris.Errorf("entity id %q is not numeric", id)
		}
	}
	return strings.Repeat("0", 10-len(id)) + id, nil
}

// submission is the subset of the submissions document we read. Both the
// current nested "addresses" shape and the flat businessAddress /
// mailingAddress shape are accepted. Scalar fields use looseString so a
// number where a string is expected does not fail the whole document.
type submission struct {
	Name                 looseString `json:"name"`
	SIC                  looseString `json:"sic"`
	StateOfIncorporation looseString `json:"stateOfIncorporation"`
	Addresses            struct {
		Business rawAddress `json:"business"`
		Mailing  rawAddress `json:"mailing"`
	} `json:"addresses"`
	BusinessAddress rawAddress `json:"businessAddress"`
	MailingAddress  rawAddress `json:"mailingAddress"`
}

type rawAddress struct {
	State          looseString `json:"state"`
	StateOrCountry looseString `json:"stateOrCountry"`
	City           looseString `json:"city"`
	Zip            looseString `json:"zip"`
	ZipCode        looseString `json:"zipCode"`
}

// looseString decodes a JSON string or number as text. Any other value,
// null included, decodes to "".
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*s = looseString(num.String())
		return nil
	}
	*s = ""
	return nil
}

func (a rawAddress) resolve() model.Address {
	return model.Address{
		State: firstNonEmpty(string(a.State), string(a.StateOrCountry)),
		City:  strings.TrimSpace(string(a.City)),
		Zip:   firstNonEmpty(string(a.Zip), string(a.ZipCode)),
	}
}

func (s submission) profile() model.Profile {
	business := s.Addresses.Business.resolve()
	if business == (model.Address{}) {
		business = s.BusinessAddress.resolve()
	}
	mailing := s.Addresses.Mailing.resolve()
	if mailing == (model.Address{}) {
		mailing = s.MailingAddress.resolve()
	}

	return model.Profile{
		Name:                 strings.TrimSpace(string(s.Name)),
		IndustryCode:         strings.TrimSpace(string(s.SIC)),
		StateOfIncorporation: strings.TrimSpace(string(s.StateOfIncorporation)),
		Business:             business,
		Mailing:              mailing,
	}
}

// ParseSubmission decodes a submissions document into a Profile
func ParseSubmission(data []byte) (model.Profile, error) {
	var s submission
	if err := json.Unmarshal(data, &s); err != nil {
		return model.Profile{}, eris.Wrap(err, "decode submission")
	}
	return s.profile(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
