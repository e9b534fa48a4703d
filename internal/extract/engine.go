// Package extract interprets the field schema against a fetched page.
// Each field type maps to a fixed strategy; fields whose type alone is not
// enough (a plain "string" can be a business name or an address) are routed
// through a role table keyed by field name.
package extract

import (
	"go.uber.org/zap"

	"github.com/aditasap/bizscope/internal/page"
	"github.com/aditasap/bizscope/internal/schema"
)

// Role names the semantic heuristic behind a field that carries no regex.
type Role string

const (
	RoleBusinessName  Role = "business_name"
	RoleAddress       Role = "address"
	RoleHours         Role = "hours"
	RoleSpecialty     Role = "specialty"
	RolePracticeAreas Role = "practice_areas"
	RoleTeam          Role = "team"
	RoleSocialLinks   Role = "social_links"
	RoleColors        Role = "colors"
	RoleFonts         Role = "fonts"
	RoleLogo          Role = "logo"
	RolePhone         Role = "phone"
	RoleEmail         Role = "email"
)

// strategy extracts one value from a page. A nil return means the page does
// not yield the field; it is never an error.
type strategy func(*page.Page) any

// roleStrategies is the closed dispatch table from role to extractor.
var roleStrategies = map[Role]strategy{
	RoleBusinessName:  extractBusinessName,
	RoleAddress:       extractAddress,
	RoleHours:         extractHours,
	RoleSpecialty:     extractSpecialty,
	RolePracticeAreas: extractPracticeAreas,
	RoleTeam:          extractTeam,
	RoleSocialLinks:   extractSocialLinks,
	RoleColors:        extractColors,
	RoleFonts:         extractFonts,
	RoleLogo:          extractLogo,
	RolePhone:         extractPhoneFallback,
	RoleEmail:         extractEmail,
}

// DefaultRoles maps the stock schema's field names to their heuristics.
// The engine treats names as opaque keys; nothing here parses Hebrew.
func DefaultRoles() map[string]Role {
	return map[string]Role{
		"שם העסק":           RoleBusinessName,
		"טלפון":             RolePhone,
		"דוא\"ל":            RoleEmail,
		"כתובת":             RoleAddress,
		"שעות פעילות":       RoleHours,
		"שעות קבלה":         RoleHours,
		"שעות פתיחה":        RoleHours,
		"תחום התמחות":       RoleSpecialty,
		"תחום פעילות":       RoleSpecialty,
		"תחומי עיסוק":       RolePracticeAreas,
		"צוות":              RoleTeam,
		"רופאים":            RoleTeam,
		"קישורים לרשתות":    RoleSocialLinks,
		"צבעים דומיננטיים":  RoleColors,
		"גופנים":            RoleFonts,
		"לוגו":              RoleLogo,
	}
}

// Engine runs schema-driven extraction. Safe for concurrent use once built.
type Engine struct {
	roles map[string]Role
}

// NewEngine creates an Engine with the default role table.
func NewEngine() *Engine {
	return &Engine{roles: DefaultRoles()}
}

// WithRole binds a field name to a role, replacing any default binding.
func (e *Engine) WithRole(fieldName string, role Role) *Engine {
	e.roles[fieldName] = role
	return e
}

// Extract runs every selected field against the page in schema order.
// A field the page does not yield, or whose extractor fails, is recorded as
// nil; extraction never aborts the record.
func (e *Engine) Extract(p *page.Page, fields []schema.FieldDefinition) *Result {
	result := NewResult()
	for i := range fields {
		f := &fields[i]
		result.Set(f.Name, e.extractField(p, f))
	}
	return result
}

// extractField runs one field with panic isolation. Extractors run over
// arbitrary scraped HTML, so a panicking heuristic degrades to a missing
// value instead of killing the scrape.
func (e *Engine) extractField(p *page.Page, f *schema.FieldDefinition) (value any) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Debug("extract: field extractor panicked",
				zap.String("field", f.Name),
				zap.Any("panic", r),
			)
			value = nil
		}
	}()

	switch f.Type {
	case schema.TypeString, schema.TypeEmail:
		if f.Pattern != nil {
			if v := matchPattern(p, f.Pattern); v != nil {
				return v
			}
			// Pattern missed; a role fallback may still find the value
			// in link attributes (tel:, mailto:) the text pass cannot see.
		}
		return e.runRole(p, f)
	case schema.TypeURL:
		return extractLogo(p)
	case schema.TypeArray, schema.TypeObject:
		return e.runRole(p, f)
	}
	return nil
}

// runRole dispatches to the field's role heuristic, or reports missing when
// the field has no bound role.
func (e *Engine) runRole(p *page.Page, f *schema.FieldDefinition) any {
	role, ok := e.roles[f.Name]
	if !ok {
		zap.L().Debug("extract: no role bound for field", zap.String("field", f.Name))
		return nil
	}
	strat, ok := roleStrategies[role]
	if !ok {
		return nil
	}
	return strat(p)
}
