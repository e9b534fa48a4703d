package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

var (
	emailRe      = regexp.MustCompile(`[\w.-]+@[\w.-]+\.[a-z]{2,}`)
	emailExactRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	phoneCleanRe = regexp.MustCompile(`[\s\-().]+`)
	phoneExactRe = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// matchPattern applies a field's compiled pattern to the page text.
// First match wins; no match yields nil, never an error.
func matchPattern(p *page.Page, pattern *regexp.Regexp) any {
	m := pattern.FindString(p.Text())
	if m == "" {
		return nil
	}
	return strings.TrimSpace(m)
}

// extractEmail finds an email address: mailto links first, then an
// email-shaped substring of the page text.
func extractEmail(p *page.Page) any {
	var found string
	p.Doc().Find(`a[href^="mailto:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		if IsValidEmail(addr) {
			found = addr
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	for _, m := range emailRe.FindAllString(p.Text(), -1) {
		if IsValidEmail(m) {
			return m
		}
	}
	return nil
}

// extractPhoneFallback checks tel: links when a phone field's pattern found
// nothing in the text.
func extractPhoneFallback(p *page.Page) any {
	var found string
	p.Doc().Find(`a[href^="tel:"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		num := strings.TrimPrefix(href, "tel:")
		if IsValidPhone(num) {
			found = num
			return false
		}
		return true
	})
	if found == "" {
		return nil
	}
	return found
}

// IsValidEmail reports whether s looks like a single email address.
func IsValidEmail(s string) bool {
	return s != "" && emailExactRe.MatchString(s)
}

// IsValidPhone reports whether s, stripped of separators, looks like a
// phone number.
func IsValidPhone(s string) bool {
	if s == "" {
		return false
	}
	clean := phoneCleanRe.ReplaceAllString(s, "")
	return phoneExactRe.MatchString(clean)
}
