package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

// defaultTopColors is how many dominant colors to report.
const defaultTopColors = 5

var (
	hexColorRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{3}){1,2}\b`)
	rgbColorRe = regexp.MustCompile(`rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,[^)]*)?\)`)
	brandVarRe = regexp.MustCompile(`--(?:primary|secondary|accent|main|brand)(?:-color)?\s*:\s*([^;}]+)`)
)

// colorCounter counts color tokens while remembering the order each color
// was first seen, so equal frequencies rank deterministically.
type colorCounter struct {
	counts    map[string]int
	firstSeen map[string]int
	next      int
}

func newColorCounter() *colorCounter {
	return &colorCounter{
		counts:    make(map[string]int),
		firstSeen: make(map[string]int),
	}
}

// add records one occurrence of a normalized color token.
func (c *colorCounter) add(color string) {
	if _, seen := c.counts[color]; !seen {
		c.firstSeen[color] = c.next
		c.next++
	}
	c.counts[color]++
}

// ranked returns colors by descending frequency, first-seen order breaking
// ties.
func (c *colorCounter) ranked() []string {
	colors := make([]string, 0, len(c.counts))
	for color := range c.counts {
		colors = append(colors, color)
	}
	sort.SliceStable(colors, func(i, j int) bool {
		ci, cj := c.counts[colors[i]], c.counts[colors[j]]
		if ci != cj {
			return ci > cj
		}
		return c.firstSeen[colors[i]] < c.firstSeen[colors[j]]
	})
	return colors
}

// DominantColors samples color tokens from the page's <style> blocks and
// inline style attributes, ranks them by frequency with stable first-seen
// tie-break, and returns the top n as lowercase hex. Falls back to brand
// CSS custom properties when the page styles yield fewer than two colors.
func DominantColors(p *page.Page, n int) []string {
	if n <= 0 {
		n = defaultTopColors
	}
	counter := newColorCounter()

	p.Doc().Find("style").Each(func(_ int, s *goquery.Selection) {
		countColorTokens(counter, s.Text())
	})
	p.Doc().Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style, _ := s.Attr("style")
		countColorTokens(counter, style)
	})

	var out []string
	for _, color := range counter.ranked() {
		out = append(out, color)
		if len(out) == n {
			break
		}
	}

	// Thin palette: look for brand color variables in the raw HTML.
	if len(out) < 2 {
		for _, m := range brandVarRe.FindAllStringSubmatch(p.HTML, -1) {
			if hex := hexColorRe.FindString(m[1]); hex != "" {
				hex = strings.ToLower(hex)
				if !contains(out, hex) {
					out = append(out, hex)
				}
			}
			if len(out) == n {
				break
			}
		}
	}

	return out
}

// extractColors adapts DominantColors to the engine's strategy signature.
func extractColors(p *page.Page) any {
	colors := DominantColors(p, defaultTopColors)
	if len(colors) == 0 {
		return nil
	}
	return toAnySlice(colors)
}

// countColorTokens feeds every hex and rgb() token in css into the counter,
// normalized to lowercase hex.
func countColorTokens(c *colorCounter, css string) {
	for _, hex := range hexColorRe.FindAllString(css, -1) {
		c.add(strings.ToLower(hex))
	}
	for _, m := range rgbColorRe.FindAllStringSubmatch(css, -1) {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			continue
		}
		c.add(fmt.Sprintf("#%02x%02x%02x", r, g, b))
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
