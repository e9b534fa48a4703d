package extract

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

// socialPlatforms maps platform keys to host patterns, in a fixed scan order
// so the first link wins deterministically.
var socialPlatforms = []struct {
	key     string
	pattern *regexp.Regexp
}{
	{"facebook", regexp.MustCompile(`facebook\.com`)},
	{"twitter", regexp.MustCompile(`twitter\.com|x\.com`)},
	{"instagram", regexp.MustCompile(`instagram\.com`)},
	{"linkedin", regexp.MustCompile(`linkedin\.com`)},
	{"youtube", regexp.MustCompile(`youtube\.com`)},
	{"tiktok", regexp.MustCompile(`tiktok\.com`)},
	{"whatsapp", regexp.MustCompile(`wa\.me|whatsapp\.com`)},
}

// extractSocialLinks collects social-network links from all anchors,
// keyed by platform. Later links overwrite earlier ones for the same
// platform, matching a last-footer-link-wins reading of the page.
func extractSocialLinks(p *page.Page) any {
	links := make(map[string]any)

	p.Doc().Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if href == "" {
			return
		}
		for _, sp := range socialPlatforms {
			if sp.pattern.MatchString(href) {
				links[sp.key] = p.ResolveURL(href)
				break
			}
		}
	})

	if len(links) == 0 {
		return nil
	}
	return links
}
