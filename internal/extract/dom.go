package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

// DOM heuristics for schema fields that carry no regex. These are
// page-structure guesswork ported to CSS selectors; each returns nil when
// nothing plausible is found.

var (
	logoClassRe = regexp.MustCompile(`(?i)logo|brand`)
	addrRe      = regexp.MustCompile(`(?i)address|location`)
	hoursRe     = regexp.MustCompile(`(?i)hours|time|schedule`)
	timeRe      = regexp.MustCompile(`\d{1,2}[:.]\d{2}`)
	serviceRe   = regexp.MustCompile(`שירותים|תחומי|התמחויות|פעילות`)
)

// hebrewCities anchor the address heuristic; an element mentioning one of
// these and sized like a street address is a candidate.
var hebrewCities = []string{
	"תל אביב", "ירושלים", "חיפה", "באר שבע", "רמת גן",
	"הרצליה", "נתניה", "פתח תקווה", "אשדוד", "אילת",
}

// hebrewDays anchor the opening-hours heuristic.
var hebrewDays = []string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}

// extractBusinessName tries h1 headings, logo alt text, then the title tag.
func extractBusinessName(p *page.Page) any {
	var name string
	p.Doc().Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if len(t) > 3 && len(t) < 50 {
			name = t
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	p.Doc().Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !logoClassRe.MatchString(class) {
			return true
		}
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			name = strings.TrimSpace(alt)
			return false
		}
		return true
	})
	if name != "" {
		return name
	}

	if t := p.Title(); t != "" {
		return t
	}
	return nil
}

// extractAddress tries og:address meta, schema.org itemprop, city-anchored
// text blocks, then address-classed elements.
func extractAddress(p *page.Page) any {
	doc := p.Doc()

	if content, ok := doc.Find(`meta[property="og:address"], meta[property="place:location:address"]`).First().Attr("content"); ok && content != "" {
		return content
	}

	if addr := strings.TrimSpace(doc.Find(`[itemprop="address"]`).First().Text()); addr != "" {
		return addr
	}

	var found string
	doc.Find("p, div, span, address").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// Skip containers; a street address is a leaf-ish block.
		if s.Children().Length() > 3 {
			return true
		}
		t := strings.TrimSpace(s.Text())
		if len(t) <= 10 || len(t) >= 100 {
			return true
		}
		for _, city := range hebrewCities {
			if strings.Contains(t, city) {
				found = t
				return false
			}
		}
		return true
	})
	if found != "" {
		return found
	}

	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if !addrRe.MatchString(class) && !addrRe.MatchString(id) {
			return true
		}
		t := strings.TrimSpace(s.Text())
		if len(t) > 5 && len(t) < 150 {
			found = t
			return false
		}
		return true
	})
	if found == "" {
		return nil
	}
	return found
}

// extractHours looks for elements classed hours/time/schedule containing a
// Hebrew day name and a clock time, then falls back to day/hour tables.
func extractHours(p *page.Page) any {
	doc := p.Doc()

	var found string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if !hoursRe.MatchString(class) && !hoursRe.MatchString(id) {
			return true
		}
		t := strings.TrimSpace(s.Text())
		if !timeRe.MatchString(t) || !containsAny(t, hebrewDays) {
			return true
		}
		var lines []string
		for _, line := range strings.Split(t, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		found = strings.Join(lines, "\n")
		return false
	})
	if found != "" {
		return found
	}

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 3 || rows.Length() > 8 {
			return true
		}
		first := rows.First().Find("td, th").First().Text()
		if !containsAny(first, hebrewDays) {
			return true
		}
		var lines []string
		rows.Each(func(_ int, row *goquery.Selection) {
			var cells []string
			row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if line := strings.TrimSpace(strings.Join(cells, " ")); line != "" {
				lines = append(lines, line)
			}
		})
		if len(lines) > 0 {
			found = strings.Join(lines, "\n")
			return false
		}
		return true
	})
	if found == "" {
		return nil
	}
	return found
}

// extractSpecialty reads meta keywords (first entry) or the meta description.
// Used for scalar business-domain fields like "תחום התמחות".
func extractSpecialty(p *page.Page) any {
	doc := p.Doc()
	if content, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		parts := splitTrimmed(content, ",")
		if len(parts) > 0 {
			return parts[0]
		}
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}
	return nil
}

// extractPracticeAreas collects a service list: meta keywords, or a list
// following a services/specialties heading.
func extractPracticeAreas(p *page.Page) any {
	doc := p.Doc()

	if content, ok := doc.Find(`meta[name="keywords"]`).First().Attr("content"); ok {
		if parts := splitTrimmed(content, ","); len(parts) > 0 {
			return toAnySlice(parts)
		}
	}

	var areas []string
	doc.Find("h2, h3").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !serviceRe.MatchString(h.Text()) {
			return true
		}
		next := h.NextAllFiltered("ul, div, section").First()
		if next.Length() == 0 {
			return true
		}
		if goquery.NodeName(next) == "ul" {
			next.Find("li").Each(func(_ int, li *goquery.Selection) {
				if t := strings.TrimSpace(li.Text()); t != "" {
					areas = append(areas, t)
				}
			})
		} else {
			next.Find("p, h4, h5, span").Each(func(_ int, item *goquery.Selection) {
				t := strings.TrimSpace(item.Text())
				if len(t) > 5 && len(t) < 100 {
					areas = append(areas, t)
				}
			})
		}
		return len(areas) == 0
	})
	if len(areas) == 0 {
		return nil
	}
	return toAnySlice(areas)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func splitTrimmed(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
