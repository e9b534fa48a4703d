// Package export serializes scrape reports to JSON, CSV, and XLSX.
// Column layout: metadata columns first, then one column per field in
// first-seen schema order across all reports. Nested values (rosters,
// social links) are serialized as JSON-in-cell.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aditasap/bizscope/internal/scrape"
)

// metaColumns lead every tabular export.
var metaColumns = []string{"url", "profile", "scraped_at", "mandatory_missing"}

// designColumns follow the field columns when any report carries design data.
var designColumns = []string{"colors", "logo_url", "fonts"}

// columns computes the export header for a set of reports: metadata, field
// names in first-seen order, then design columns when present.
func columns(reports []*scrape.Report) []string {
	cols := append([]string{}, metaColumns...)
	seen := make(map[string]bool)
	hasDesign := false
	for _, r := range reports {
		for _, name := range r.Fields.Names() {
			if !seen[name] {
				seen[name] = true
				cols = append(cols, name)
			}
		}
		if r.Design != nil {
			hasDesign = true
		}
	}
	if hasDesign {
		cols = append(cols, designColumns...)
	}
	return cols
}

// row renders one report against the given header.
func row(r *scrape.Report, cols []string) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		switch col {
		case "url":
			out[i] = r.URL
		case "profile":
			out[i] = r.Profile
		case "scraped_at":
			out[i] = r.ScrapedAt.Format("2006-01-02T15:04:05Z07:00")
		case "mandatory_missing":
			out[i] = strings.Join(r.MandatoryMissing, "; ")
		case "colors":
			if r.Design != nil {
				out[i] = strings.Join(r.Design.Colors, "; ")
			}
		case "logo_url":
			if r.Design != nil {
				out[i] = r.Design.LogoURL
			}
		case "fonts":
			if r.Design != nil {
				out[i] = strings.Join(r.Design.Fonts, "; ")
			}
		default:
			if v, ok := r.Fields.Get(col); ok {
				out[i] = cellValue(v)
			}
		}
	}
	return out
}

// cellValue flattens an extracted value for a spreadsheet cell. Scalars
// render as-is; arrays and objects as compact JSON.
func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
