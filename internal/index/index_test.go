package index

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/edgarscan/internal/fetch"
	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const masterHeader = `Description:           Master Index of EDGAR Dissemination Feed
Last Data Received:    March 31, 2023
Comments:              webmaster@sec.gov
Anonymous FTP:         ftp://ftp.sec.gov/edgar/
Cloud HTTP:            https://www.sec.gov/Archives/




CIK|Company Name|Form Type|Date Filed|Filename
--------------------------------------------------------------------------------
`

const masterRows = `719739|SVB FINANCIAL GROUP|8-K|2023-03-10|edgar/data/719739/0001193125-23-064929.txt
834285|SIGNATURE BANK|8-K|2023-03-13|edgar/data/834285/0000834285-23-000004.txt

1411579|AMC ENTERTAINMENT HOLDINGS, INC.|4|2023-01-05|edgar/data/1411579/0001411579-23-000001.txt
719739|SVB FINANCIAL GROUP|10-K|2023-02-24|edgar/data/719739/0000719739-23-000012.txt
broken row
`

func TestParseListing_SkipsHeaderAndBlankLines(t *testing.T) {
	entries, err := ParseListing(strings.NewReader(masterHeader+masterRows), 11)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, model.IndexEntry{
		EntityID:   "719739",
		EntityName: "SVB FINANCIAL GROUP",
		FormType:   "8-K",
		DateFiled:  "2023-03-10",
		FileName:   "edgar/data/719739/0001193125-23-064929.txt",
	}, entries[0])
	assert.Equal(t, "AMC ENTERTAINMENT HOLDINGS, INC.", entries[2].EntityName)
}

func TestFilter(t *testing.T) {
	entries, err := ParseListing(strings.NewReader(masterHeader+masterRows), 11)
	require.NoError(t, err)

	banks := Filter(entries, []string{"0000719739", "834285"}, []string{"8-K"})
	require.Len(t, banks, 2)
	assert.Equal(t, "719739", banks[0].EntityID)
	assert.Equal(t, "834285", banks[1].EntityID)

	assert.Len(t, Filter(entries, nil, []string{"4"}), 1)
	assert.Len(t, Filter(entries, nil, nil), 4)
	assert.Len(t, Filter(entries, []string{""}, nil), 4)
}

func TestToRecord(t *testing.T) {
	e := model.IndexEntry{
		EntityID:   "0000719739",
		EntityName: "SVB FINANCIAL GROUP",
		FormType:   "8-K",
		DateFiled:  "2023-03-10",
		FileName:   "edgar/data/719739/0001193125-23-064929.txt",
	}

	rec := ToRecord(e, "https://www.sec.gov/Archives/")

	assert.Equal(t, "719739", rec.EntityID)
	assert.Equal(t, "0001193125-23-064929", rec.AccessionID)
	assert.Equal(t, "https://www.sec.gov/Archives/edgar/data/719739/0001193125-23-064929.txt", rec.DocumentLink)
	assert.Equal(t, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), rec.FiledAt)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2023Q1")
	require.NoError(t, err)
	assert.Equal(t, Period{Year: 2023, Quarter: 1}, p)

	p, err = ParsePeriod("2022-4")
	require.NoError(t, err)
	assert.Equal(t, "2022Q4", p.String())

	_, err = ParsePeriod("2023Q5")
	assert.Error(t, err)
	_, err = ParsePeriod("last year")
	assert.Error(t, err)
}

func zipped(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestClient_ListingDecodesLatin1(t *testing.T) {
	// 0xE9 is é in ISO-8859-1
	row := []byte("1234|SOCI\xe9T\xe9 G\xe9N\xe9RALE|6-K|2023-01-04|edgar/data/1234/0001234-23-000001.txt\n")
	archive := zipped(t, "master.idx", append([]byte(masterHeader), row...))

	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	f := fetch.NewFetcher(model.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "test", MaxRetries: 1}, model.RateLimitingConfig{})
	client := NewClient(f, model.IndexConfig{BaseURL: server.URL + "/full-index/", HeaderLines: 11}, "https://www.sec.gov/Archives/", nil)

	entries, err := client.Listing(context.Background(), 2023, 1)
	require.NoError(t, err)
	assert.Equal(t, "/full-index/2023/QTR1/master.zip", requested)
	require.Len(t, entries, 1)
	assert.Equal(t, "SOCIÉTÉ GÉNÉRALE", entries[0].EntityName)

	records := client.Records(entries)
	assert.Equal(t, "0001234-23-000001", records[0].AccessionID)
}

func TestClient_ListingsSkipsFailedPeriods(t *testing.T) {
	archive := zipped(t, "master.idx", []byte(masterHeader+masterRows))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "QTR2") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write(archive)
	}))
	defer server.Close()

	f := fetch.NewFetcher(model.HTTPConfig{Timeout: 5 * time.Second, MaxRetries: 1}, model.RateLimitingConfig{})
	client := NewClient(f, model.IndexConfig{BaseURL: server.URL + "/", HeaderLines: 11}, "", nil)

	entries := client.Listings(context.Background(), []Period{{2023, 1}, {2023, 2}, {2023, 3}})
	assert.Len(t, entries, 8)
}

func TestOpenMasterIndex_Missing(t *testing.T) {
	_, err := openMasterIndex(zipped(t, "other.txt", []byte("x")))
	assert.Error(t, err)

	_, err = openMasterIndex([]byte("not a zip"))
	assert.Error(t, err)
}
