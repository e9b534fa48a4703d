// Package store persists scrape reports and caches fetched pages.
// Two backends: SQLite for single-user CLI use, Postgres for shared
// deployments. Selected by the store.driver config key.
package store

import (
	"context"
	"time"
)

// ReportRecord is a persisted scrape report. Report holds the JSON-encoded
// scrape.Report; the store does not interpret it.
type ReportRecord struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Profile   string    `json:"profile"`
	Report    []byte    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportFilter specifies criteria for listing reports.
type ReportFilter struct {
	Profile string `json:"profile,omitempty"`
	URL     string `json:"url,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Store defines the persistence interface.
type Store interface {
	// Reports
	SaveReport(ctx context.Context, url, profile string, report []byte) (string, error)
	GetReport(ctx context.Context, id string) (*ReportRecord, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]ReportRecord, error)

	// Page cache
	GetCachedPage(ctx context.Context, url string) (string, error)
	SetCachedPage(ctx context.Context, url, html string, ttl time.Duration) error
	DeleteExpiredPages(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
