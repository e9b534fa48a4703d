package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

var (
	fontFamilyRe = regexp.MustCompile(`font-family\s*:\s*([^;}]+)`)
	fontFaceRe   = regexp.MustCompile(`@font-face\s*{[^}]+font-family\s*:\s*['"]([^'"]+)['"]`)
	fontVarRe    = regexp.MustCompile(`--(?:font|typography)-family(?:-[a-z]+)?\s*:\s*([^;}]+)`)
	fontWeightRe = regexp.MustCompile(`:.*`)
)

// genericFamilies are CSS keywords, not real typefaces.
var genericFamilies = map[string]bool{
	"sans-serif": true, "serif": true, "monospace": true,
	"cursive": true, "fantasy": true, "inherit": true, "initial": true,
}

// Fonts identifies typefaces used on the page: Google Fonts link tags,
// @font-face rules, font-family declarations in <style> blocks and inline
// styles, and font CSS variables. Deduplicated, generic families dropped,
// sorted.
func Fonts(p *page.Page) []string {
	seen := make(map[string]bool)
	addFamilies := func(decl string) {
		for _, family := range strings.Split(decl, ",") {
			family = strings.TrimSpace(family)
			family = strings.Trim(family, `'"`)
			if family == "" || genericFamilies[strings.ToLower(family)] {
				continue
			}
			seen[family] = true
		}
	}

	doc := p.Doc()

	doc.Find(`link[href*="fonts.googleapis.com"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		idx := strings.Index(href, "family=")
		if idx < 0 {
			return
		}
		familyPart := href[idx+len("family="):]
		if amp := strings.IndexByte(familyPart, '&'); amp >= 0 {
			familyPart = familyPart[:amp]
		}
		for _, family := range strings.Split(familyPart, "|") {
			family = fontWeightRe.ReplaceAllString(family, "")
			family = strings.ReplaceAll(family, "+", " ")
			if family = strings.TrimSpace(family); family != "" {
				seen[family] = true
			}
		}
	})

	for _, m := range fontFaceRe.FindAllStringSubmatch(p.HTML, -1) {
		addFamilies(m[1])
	}
	doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		for _, m := range fontFamilyRe.FindAllStringSubmatch(s.Text(), -1) {
			addFamilies(m[1])
		}
	})
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		for _, m := range fontFamilyRe.FindAllStringSubmatch(style, -1) {
			addFamilies(m[1])
		}
	})
	for _, m := range fontVarRe.FindAllStringSubmatch(p.HTML, -1) {
		addFamilies(m[1])
	}

	fonts := make([]string, 0, len(seen))
	for f := range seen {
		fonts = append(fonts, f)
	}
	sort.Strings(fonts)
	return fonts
}

// extractFonts adapts Fonts to the engine's strategy signature.
func extractFonts(p *page.Page) any {
	fonts := Fonts(p)
	if len(fonts) == 0 {
		return nil
	}
	return toAnySlice(fonts)
}
