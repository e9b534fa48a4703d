package schema

import (
	_ "embed"
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
)

//go:embed profiles.json
var defaultProfilesJSON []byte

// Profile names a business category and the subset of schema fields that
// matter for it. Mandatory fields are reported as missing in the scrape
// report; they never fail a scrape.
type Profile struct {
	Key             string   `json:"-"`
	DisplayName     string   `json:"profile_name"`
	Fields          []string `json:"fields"`
	MandatoryFields []string `json:"mandatory_fields"`
}

// IsCustom reports whether this is the free-form profile whose field list is
// chosen per invocation rather than from the schema's profile tags.
func (p *Profile) IsCustom() bool {
	return p.Key == "custom"
}

// ProfileCatalog is the set of known profiles, keyed by identifier.
type ProfileCatalog map[string]*Profile

// LoadProfiles parses a profile catalog from JSON.
func LoadProfiles(data []byte) (ProfileCatalog, error) {
	var raw map[string]*Profile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "schema: parse profiles")
	}
	for key, p := range raw {
		p.Key = key
	}
	return ProfileCatalog(raw), nil
}

// LoadProfilesFile loads a profile catalog from a JSON file on disk.
func LoadProfilesFile(path string) (ProfileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: read %s", path)
	}
	return LoadProfiles(data)
}

// DefaultProfiles returns the embedded stock profile catalog.
func DefaultProfiles() ProfileCatalog {
	c, err := LoadProfiles(defaultProfilesJSON)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the profile for the given key, or nil.
func (c ProfileCatalog) Get(key string) *Profile {
	return c[key]
}

// Keys returns the profile identifiers in sorted order.
func (c ProfileCatalog) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MissingMandatory returns the profile's mandatory fields that have no value
// in the given result set, preserving the profile's declared order.
func (p *Profile) MissingMandatory(values map[string]any) []string {
	var missing []string
	for _, name := range p.MandatoryFields {
		v, ok := values[name]
		if !ok || v == nil || v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
