// Package scrape orchestrates one scrape: fetch the page, select the
// profile's fields, run the extraction engine, and assemble a report.
package scrape

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/aditasap/bizscope/internal/extract"
	"github.com/aditasap/bizscope/internal/fetch"
	"github.com/aditasap/bizscope/internal/page"
	"github.com/aditasap/bizscope/internal/schema"
)

// PageCache stores fetched HTML keyed by URL. The store package satisfies
// this; the scraper only needs get and set.
type PageCache interface {
	GetCachedPage(ctx context.Context, url string) (string, error)
	SetCachedPage(ctx context.Context, url, html string, ttl time.Duration) error
}

// Options toggle the design-element extractors. All default to on.
type Options struct {
	Colors bool
	Logo   bool
	Fonts  bool

	// CustomFields overrides the profile's field list when scraping with
	// the custom profile.
	CustomFields []string
}

// DefaultOptions returns Options with every design extractor enabled.
func DefaultOptions() Options {
	return Options{Colors: true, Logo: true, Fonts: true}
}

// Design holds the page's design elements, extracted independently of the
// field schema.
type Design struct {
	Colors  []string `json:"colors,omitempty"`
	LogoURL string   `json:"logo_url,omitempty"`
	Fonts   []string `json:"fonts,omitempty"`
}

// Report is the outcome of one scrape invocation. Immutable once returned.
type Report struct {
	URL              string          `json:"url"`
	Profile          string          `json:"profile"`
	Fields           *extract.Result `json:"fields"`
	Design           *Design         `json:"design,omitempty"`
	MandatoryMissing []string        `json:"mandatory_missing,omitempty"`
	ScrapedAt        time.Time       `json:"scraped_at"`
}

// Scraper runs schema-driven scrapes. Safe for concurrent use.
type Scraper struct {
	fetcher  fetch.Fetcher
	schema   *schema.Schema
	profiles schema.ProfileCatalog
	engine   *extract.Engine

	cache    PageCache
	cacheTTL time.Duration
}

// New creates a Scraper.
func New(f fetch.Fetcher, s *schema.Schema, profiles schema.ProfileCatalog) *Scraper {
	return &Scraper{
		fetcher:  f,
		schema:   s,
		profiles: profiles,
		engine:   extract.NewEngine(),
	}
}

// WithCache enables the page cache: fetched HTML is stored for ttl and
// reused on repeat scrapes of the same URL.
func (s *Scraper) WithCache(cache PageCache, ttl time.Duration) *Scraper {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// Scrape fetches url and extracts the fields of the named profile.
// Fetch failures are fatal for the invocation; individual field failures
// degrade to missing values inside the engine.
func (s *Scraper) Scrape(ctx context.Context, url, profileKey string, opts Options) (*Report, error) {
	profile := s.profiles.Get(profileKey)
	if profile == nil {
		return nil, eris.Errorf("scrape: unknown profile %q", profileKey)
	}

	fields := s.selectFields(profile, opts)
	if len(fields) == 0 {
		zap.L().Warn("scrape: profile selects no fields", zap.String("profile", profileKey))
	}

	p, err := s.fetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	result := s.engine.Extract(p, fields)

	report := &Report{
		URL:       p.URL,
		Profile:   profileKey,
		Fields:    result,
		ScrapedAt: time.Now().UTC(),
	}

	if opts.Colors || opts.Logo || opts.Fonts {
		design := &Design{}
		if opts.Colors {
			design.Colors = extract.DominantColors(p, 0)
		}
		if opts.Logo {
			if logo, ok := extract.Logo(p); ok {
				design.LogoURL = logo
			}
		}
		if opts.Fonts {
			design.Fonts = extract.Fonts(p)
		}
		report.Design = design
	}

	report.MandatoryMissing = profile.MissingMandatory(result.Values())

	zap.L().Info("scrape: complete",
		zap.String("url", url),
		zap.String("profile", profileKey),
		zap.Int("fields", result.Len()),
		zap.Int("mandatory_missing", len(report.MandatoryMissing)),
	)
	return report, nil
}

// fetchPage returns the page for url, consulting the page cache first when
// one is configured. Cache failures degrade to a live fetch.
func (s *Scraper) fetchPage(ctx context.Context, url string) (*page.Page, error) {
	if s.cache != nil {
		html, err := s.cache.GetCachedPage(ctx, url)
		if err != nil {
			zap.L().Warn("scrape: page cache lookup failed", zap.String("url", url), zap.Error(err))
		}
		if html != "" {
			zap.L().Debug("scrape: using cached page", zap.String("url", url))
			return page.New(url, html)
		}
	}

	start := time.Now()
	p, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: fetch %s", url)
	}
	zap.L().Debug("scrape: page fetched",
		zap.String("url", url),
		zap.Duration("took", time.Since(start)),
		zap.Int("html_bytes", len(p.HTML)),
	)

	if s.cache != nil {
		if err := s.cache.SetCachedPage(ctx, p.URL, p.HTML, s.cacheTTL); err != nil {
			zap.L().Warn("scrape: page cache store failed", zap.String("url", url), zap.Error(err))
		}
	}
	return p, nil
}

// selectFields resolves the profile to an ordered field list. The custom
// profile selects by explicit field names; every other profile filters by
// the schema's profile tags.
func (s *Scraper) selectFields(profile *schema.Profile, opts Options) []schema.FieldDefinition {
	if profile.IsCustom() {
		names := opts.CustomFields
		if len(names) == 0 {
			names = profile.Fields
		}
		return s.schema.SelectNames(names)
	}
	return s.schema.Select(profile.Key)
}
