package extract

import (
	"encoding/base64"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

// Logo resolves the site logo URL, reporting whether one was found.
func Logo(p *page.Page) (string, bool) {
	v := extractLogo(p)
	if v == nil {
		return "", false
	}
	return v.(string), true
}

// extractLogo resolves the site logo URL: logo-marked images first, then a
// header image, then an image inside a home link. Inline SVG logos come back
// as a data URI. Returns nil when nothing matches.
func extractLogo(p *page.Page) any {
	doc := p.Doc()

	// Images whose class, id, alt, or src mention "logo".
	selectors := []string{
		`img[class*="logo" i]`,
		`img[id*="logo" i]`,
		`img[alt*="logo" i]`,
		`img[src*="logo" i]`,
		`a[class*="logo" i] img`,
		`div[class*="logo" i] img`,
	}
	for _, sel := range selectors {
		if src, ok := doc.Find(sel).First().Attr("src"); ok {
			if u := p.ResolveURL(src); u != "" {
				return u
			}
		}
	}

	if svg := doc.Find(`svg[class*="logo" i]`).First(); svg.Length() > 0 {
		if html, err := goquery.OuterHtml(svg); err == nil {
			return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(html))
		}
	}

	// First image inside the page header.
	if src, ok := doc.Find(`header img, div[class*="header" i] img`).First().Attr("src"); ok {
		if u := p.ResolveURL(src); u != "" {
			return u
		}
	}

	// Image wrapped in a link back to the homepage.
	var found string
	doc.Find(`a[href="/"] img`).EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
			found = p.ResolveURL(src)
			return false
		}
		return true
	})
	if found == "" {
		return nil
	}
	return found
}
