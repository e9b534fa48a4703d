// Package page holds the in-memory representation of a fetched document:
// the raw HTML, a parsed goquery DOM, and a plaintext view. A Page is built
// once per scrape and read-only afterwards.
package page

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// Page is a fetched document ready for extraction.
type Page struct {
	URL  string
	HTML string

	doc  *goquery.Document
	text string
	base *url.URL
}

var (
	spaceRe = regexp.MustCompile(`[ \t]+`)
	nlRe    = regexp.MustCompile(`\n{3,}`)
)

// New parses raw HTML into a Page. The page URL is used as the base for
// resolving relative links.
func New(pageURL, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "page: parse html")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, eris.Wrapf(err, "page: parse url %s", pageURL)
	}

	return &Page{
		URL:  pageURL,
		HTML: html,
		doc:  doc,
		base: base,
		text: flattenText(doc),
	}, nil
}

// Doc returns the parsed DOM.
func (p *Page) Doc() *goquery.Document {
	return p.doc
}

// Text returns the page's visible text with scripts and styles removed,
// whitespace collapsed, and Unicode NFC-normalized so Hebrew and other
// combining-mark text compares stably.
func (p *Page) Text() string {
	return p.text
}

// Title returns the document title, trimmed.
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// ResolveURL resolves href against the page URL. Absolute URLs pass through;
// unparseable ones return "".
func (p *Page) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return p.base.ResolveReference(ref).String()
}

// flattenText renders the DOM to plaintext. Non-content subtrees are dropped
// on a clone so the Page's DOM stays intact for selector-based extractors.
func flattenText(doc *goquery.Document) string {
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	clone := body.Clone()
	clone.Find("script, style, noscript").Remove()

	text := clone.Text()
	text = spaceRe.ReplaceAllString(text, " ")
	text = nlRe.ReplaceAllString(text, "\n\n")
	return norm.NFC.String(strings.TrimSpace(text))
}
