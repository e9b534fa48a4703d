package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite("file:" + t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_SaveAndGetReport(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	report := []byte(`{"url":"https://cohen.example","profile":"law_firm"}`)
	id, err := s.SaveReport(ctx, "https://cohen.example", "law_firm", report)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := s.GetReport(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "https://cohen.example", rec.URL)
	assert.Equal(t, "law_firm", rec.Profile)
	assert.JSONEq(t, string(report), string(rec.Report))
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSQLiteStore_GetReportMissing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	rec, err := s.GetReport(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSQLiteStore_ListReports(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for _, r := range []struct{ url, profile string }{
		{"https://a.example", "law_firm"},
		{"https://b.example", "doctor"},
		{"https://a.example", "law_firm"},
	} {
		_, err := s.SaveReport(ctx, r.url, r.profile, []byte(`{}`))
		require.NoError(t, err)
	}

	all, err := s.ListReports(ctx, ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	lawFirm, err := s.ListReports(ctx, ReportFilter{Profile: "law_firm"})
	require.NoError(t, err)
	assert.Len(t, lawFirm, 2)

	byURL, err := s.ListReports(ctx, ReportFilter{URL: "https://b.example"})
	require.NoError(t, err)
	require.Len(t, byURL, 1)
	assert.Equal(t, "doctor", byURL[0].Profile)

	limited, err := s.ListReports(ctx, ReportFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStore_PageCache(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	html, err := s.GetCachedPage(ctx, "https://cohen.example")
	require.NoError(t, err)
	assert.Empty(t, html, "cold cache")

	require.NoError(t, s.SetCachedPage(ctx, "https://cohen.example", "<html>v1</html>", time.Hour))
	html, err = s.GetCachedPage(ctx, "https://cohen.example")
	require.NoError(t, err)
	assert.Equal(t, "<html>v1</html>", html)

	// Upsert replaces the cached page.
	require.NoError(t, s.SetCachedPage(ctx, "https://cohen.example", "<html>v2</html>", time.Hour))
	html, err = s.GetCachedPage(ctx, "https://cohen.example")
	require.NoError(t, err)
	assert.Equal(t, "<html>v2</html>", html)
}

func TestSQLiteStore_ExpiredPagesInvisibleAndDeletable(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetCachedPage(ctx, "https://old.example", "<html>old</html>", -time.Minute))
	require.NoError(t, s.SetCachedPage(ctx, "https://fresh.example", "<html>fresh</html>", time.Hour))

	html, err := s.GetCachedPage(ctx, "https://old.example")
	require.NoError(t, err)
	assert.Empty(t, html, "expired page must not be served")

	n, err := s.DeleteExpiredPages(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	html, err = s.GetCachedPage(ctx, "https://fresh.example")
	require.NoError(t, err)
	assert.Equal(t, "<html>fresh</html>", html)
}
