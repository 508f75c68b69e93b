// Package index reads the quarterly EDGAR master index listings.
package index

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// Period is one calendar quarter
type Period struct {
	Year    int
	Quarter int
}

func (p Period) String() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// ParsePeriod parses "2023Q1" or "2023-1"
func ParsePeriod(s string) (Period, error) {
	var p Period
	s = strings.ToUpper(strings.TrimSpace(s))
	if _, err := fmt.Sscanf(strings.Replace(s, "-", "Q", 1), "%dQ%d", &p.Year, &p.Quarter); err != nil {
		return Period{}, eris.Wrapf(err, "invalid period %q", s)
	}
	if p.Quarter < 1 || p.Quarter > 4 {
		return Period{}, eris.Errorf("invalid quarter in %q", s)
	}
	return p, nil
}

// Client downloads master index listings
type Client struct {
	fetcher      *fetch.Fetcher
	baseURL      string
	archivesBase string
	headerLines  int
	logger       *zap.Logger
}

// NewClient creates an index client
func NewClient(fetcher *fetch.Fetcher, cfg model.IndexConfig, archivesBase string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		fetcher:      fetcher,
		baseURL:      cfg.BaseURL,
		archivesBase: archivesBase,
		headerLines:  cfg.HeaderLines,
		logger:       logger,
	}
}

// Listing downloads and parses {base}{year}/QTR{quarter}/master.zip
func (c *Client) Listing(ctx context.Context, year, quarter int) ([]model.IndexEntry, error) {
	p := Period{Year: year, Quarter: quarter}
	url := fmt.Sprintf("%s%d/QTR%d/master.zip", c.baseURL, p.Year, p.Quarter)
	c.logger.Info("processing index", zap.String("period", p.String()), zap.String("url", url))

	res, err := c.fetcher.GetWithRetry(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "download index for %s", p)
	}

	idx, err := openMasterIndex(res.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "unpack index for %s", p)
	}
	return ParseListing(charmap.ISO8859_1.NewDecoder().Reader(idx), c.headerLines)
}

// Listings fetches several periods, skipping any that fail
func (c *Client) Listings(ctx context.Context, periods []Period) []model.IndexEntry {
	var all []model.IndexEntry
	for _, p := range periods {
		if ctx.Err() != nil {
			break
		}
		entries, err := c.Listing(ctx, p.Year, p.Quarter)
		if err != nil {
			c.logger.Warn("failed to download index", zap.String("period", p.String()), zap.Error(err))
			continue
		}
		all = append(all, entries...)
	}
	return all
}

// openMasterIndex returns the master.idx member of a zip archive
func openMasterIndex(data []byte) (io.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "open zip")
	}
	for _, f := range zr.File {
		if path.Base(f.Name) != "master.idx" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, eris.Wrap(err, "open master.idx")
		}
		defer func() { _ = rc.Close() }()
		body, err := io.ReadAll(rc)
		if err != nil {
			return nil, eris.Wrap(err, "read master.idx")
		}
		return bytes.NewReader(body), nil
	}
	return nil, eris.New("master.idx not found in archive")
}

// ParseListing skips headerLines lines and parses the rest as
// CIK|Company Name|Form Type|Date Filed|Filename. Blank and short rows
// are skipped.
func ParseListing(r io.Reader, headerLines int) ([]model.IndexEntry, error) {
	var entries []model.IndexEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if line <= headerLines {
			continue
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		cols := strings.Split(text, "|")
		if len(cols) < 5 {
			continue
		}
		entries = append(entries, model.IndexEntry{
			EntityID:   strings.TrimSpace(cols[0]),
			EntityName: strings.TrimSpace(cols[1]),
			FormType:   strings.TrimSpace(cols[2]),
			DateFiled:  strings.TrimSpace(cols[3]),
			FileName:   strings.TrimSpace(cols[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return entries, eris.Wrap(err, "scan listing")
	}
	return entries, nil
}

// Filter keeps entries whose entity is in entityIDs and whose form is in
// forms. An empty set matches everything.
func Filter(entries []model.IndexEntry, entityIDs, forms []string) []model.IndexEntry {
	ids := toSet(entityIDs, normalizeCIK)
	formSet := toSet(forms, strings.TrimSpace)

	var out []model.IndexEntry
	for _, e := range entries {
		if len(ids) > 0 && !ids[normalizeCIK(e.EntityID)] {
			continue
		}
		if len(formSet) > 0 && !formSet[e.FormType] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ToRecord converts an index entry to a FilingRecord. The accession is
// the file name without its directory and extension.
func ToRecord(e model.IndexEntry, archivesBase string) model.FilingRecord {
	filed, _ := time.Parse("2006-01-02", e.DateFiled)
	accession := strings.TrimSuffix(path.Base(e.FileName), path.Ext(e.FileName))
	return model.FilingRecord{
		EntityID:     normalizeCIK(e.EntityID),
		EntityName:   e.EntityName,
		FormType:     e.FormType,
		FiledAt:      filed,
		AccessionID:  accession,
		DocumentLink: archivesBase + strings.TrimPrefix(e.FileName, "/"),
	}
}

// Records converts entries with the client's archives base
func (c *Client) Records(entries []model.IndexEntry) []model.FilingRecord {
	out := make([]model.FilingRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToRecord(e, c.archivesBase))
	}
	return out
}

func normalizeCIK(s string) string {
	s = strings.TrimSpace(s)
	if trimmed := strings.TrimLeft(s, "0"); trimmed != "" {
		return trimmed
	}
	return s
}

func toSet(values []string, norm func(string) string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = norm(v); v != "" {
			set[v] = true
		}
	}
	return set
}
