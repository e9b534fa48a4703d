package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditasap/bizscope/internal/page"
	"github.com/aditasap/bizscope/internal/schema"
	"github.com/aditasap/bizscope/internal/scrape"
	"github.com/aditasap/bizscope/internal/store"
)

type cannedFetcher struct {
	html string
	err  error
}

func (f *cannedFetcher) Fetch(_ context.Context, url string) (*page.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return page.New(url, f.html)
}

func newTestRouter(t *testing.T, fetcher *cannedFetcher, withStore bool) (*chi.Mux, store.Store) {
	t.Helper()

	var st store.Store
	if withStore {
		s, err := store.NewSQLite("file:" + filepath.Join(t.TempDir(), "serve.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.Migrate(context.Background()))
		st = s
	}

	scraper := scrape.New(fetcher, schema.Default(), schema.DefaultProfiles())
	r := chi.NewRouter()
	registerRoutes(r, scraper, st)
	return r, st
}

func TestServeHealthz(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &cannedFetcher{html: "<html></html>"}, false)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeScrape(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>מאפיית גולן</title></head><body>
		<h1>מאפיית גולן</h1>
		<p>טלפון: 03-5555555</p>
	</body></html>`
	r, st := newTestRouter(t, &cannedFetcher{html: html}, true)

	body := strings.NewReader(`{"url":"https://golan.example","profile":"business"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", body))

	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		URL     string         `json:"url"`
		Profile string         `json:"profile"`
		Fields  map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "https://golan.example", report.URL)
	assert.Equal(t, "business", report.Profile)
	assert.Equal(t, "מאפיית גולן", report.Fields["שם העסק"])
	assert.Equal(t, "03-5555555", report.Fields["טלפון"])

	records, err := st.ListReports(context.Background(), store.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 1, "scrape result should be persisted")
}

func TestServeScrape_DefaultsProfile(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &cannedFetcher{html: "<html><body><h1>Acme Ltd</h1></body></html>"}, false)

	body := strings.NewReader(`{"url":"https://acme.example"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"profile":"business"`)
}

func TestServeScrape_BadRequests(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &cannedFetcher{html: "<html></html>"}, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader("not json")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", strings.NewReader(`{"profile":"business"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeScrape_FetchFailure(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &cannedFetcher{err: context.DeadlineExceeded}, false)

	body := strings.NewReader(`{"url":"https://down.example"}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/scrape", body))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestServeReports(t *testing.T) {
	t.Parallel()

	r, st := newTestRouter(t, &cannedFetcher{html: "<html></html>"}, true)
	_, err := st.SaveReport(context.Background(), "https://a.example", "law_firm", []byte(`{}`))
	require.NoError(t, err)
	_, err = st.SaveReport(context.Background(), "https://b.example", "doctor", []byte(`{}`))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports?profile=doctor", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []store.ReportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "https://b.example", records[0].URL)
}

func TestServeReports_NoStore(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(t, &cannedFetcher{html: "<html></html>"}, false)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestReadURLList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"https://a.example\n\n# comment\nhttps://b.example\n  https://c.example  \n",
	), 0o644))

	urls, err := readURLList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example", "https://c.example"}, urls)
}

func TestWriteReports_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	err := writeReports("out.pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}
