// Package schema loads and indexes the declarative field schema that drives
// extraction. Field names are opaque Unicode strings (the stock schema is
// Hebrew); nothing in this package inspects them beyond equality.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/rotisserie/eris"
)

//go:embed fields.json
var defaultFieldsJSON []byte

// FieldType is the closed set of extraction strategies a field can declare.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeEmail  FieldType = "email"
	TypeURL    FieldType = "url"
	TypeArray  FieldType = "array"
	TypeObject FieldType = "object"
)

// Valid reports whether t is a recognized field type.
func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeEmail, TypeURL, TypeArray, TypeObject:
		return true
	}
	return false
}

// SchemaError reports a malformed schema document. It is fatal at load time;
// a schema either loads completely or not at all.
type SchemaError struct {
	Index int    // position of the offending definition, -1 for document-level errors
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("schema: %s", e.Msg)
	}
	return fmt.Sprintf("schema: field %d: %s", e.Index, e.Msg)
}

// FieldDefinition is one entry of the field schema.
type FieldDefinition struct {
	Name     string         `json:"field"`
	Type     FieldType      `json:"type"`
	Example  any            `json:"example,omitempty"`
	Regex    string         `json:"regex,omitempty"`
	Profiles []string       `json:"profiles"`
	Pattern  *regexp.Regexp `json:"-"` // compiled from Regex at load, nil when absent
}

// AppliesTo reports whether the field is part of the given profile.
func (f *FieldDefinition) AppliesTo(profile string) bool {
	for _, p := range f.Profiles {
		if p == profile {
			return true
		}
	}
	return false
}

// Schema is an ordered, immutable sequence of field definitions with indexed
// name lookup.
type Schema struct {
	fields []FieldDefinition
	byName map[string]*FieldDefinition
}

// rawField mirrors the JSON wire shape. Pointers distinguish a missing key
// from a present-but-empty value.
type rawField struct {
	Name     *string   `json:"field"`
	Type     *string   `json:"type"`
	Example  any       `json:"example"`
	Regex    *string   `json:"regex"`
	Profiles *[]string `json:"profiles"`
}

// Load parses a JSON schema document and compiles field patterns.
// Missing required keys, unknown types, and invalid regexes all yield a
// *SchemaError (via eris, so callers can unwrap).
func Load(data []byte) (*Schema, error) {
	var raw []rawField
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(&SchemaError{Index: -1, Msg: "not a JSON array of field definitions"}, err.Error())
	}

	s := &Schema{
		fields: make([]FieldDefinition, 0, len(raw)),
		byName: make(map[string]*FieldDefinition, len(raw)),
	}
	for i, r := range raw {
		if r.Name == nil || *r.Name == "" {
			return nil, &SchemaError{Index: i, Msg: "missing required key \"field\""}
		}
		if r.Type == nil {
			return nil, &SchemaError{Index: i, Msg: "missing required key \"type\""}
		}
		if r.Profiles == nil {
			return nil, &SchemaError{Index: i, Msg: "missing required key \"profiles\""}
		}
		ft := FieldType(*r.Type)
		if !ft.Valid() {
			return nil, &SchemaError{Index: i, Msg: fmt.Sprintf("unknown type %q", *r.Type)}
		}

		def := FieldDefinition{
			Name:     *r.Name,
			Type:     ft,
			Example:  r.Example,
			Profiles: *r.Profiles,
		}
		if r.Regex != nil && *r.Regex != "" {
			re, err := regexp.Compile(*r.Regex)
			if err != nil {
				return nil, &SchemaError{Index: i, Msg: fmt.Sprintf("invalid regex %q: %v", *r.Regex, err)}
			}
			def.Regex = *r.Regex
			def.Pattern = re
		}
		s.fields = append(s.fields, def)
	}

	for i := range s.fields {
		s.byName[s.fields[i].Name] = &s.fields[i]
	}
	return s, nil
}

// LoadFile loads a schema from a JSON file on disk.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: read %s", path)
	}
	return Load(data)
}

// Default returns the embedded stock schema. It panics on error because the
// embedded document is validated by tests.
func Default() *Schema {
	s, err := Load(defaultFieldsJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the schema's definitions in document order. The returned
// slice is shared; callers must not mutate it.
func (s *Schema) Fields() []FieldDefinition {
	return s.fields
}

// Len returns the number of field definitions.
func (s *Schema) Len() int {
	return len(s.fields)
}

// ByName returns the definition for the given field name, or nil.
func (s *Schema) ByName(name string) *FieldDefinition {
	return s.byName[name]
}

// Select returns the ordered subsequence of definitions whose profile set
// contains the given identifier. An unknown profile yields an empty slice,
// not an error; the caller decides whether that is a misconfiguration.
func (s *Schema) Select(profile string) []FieldDefinition {
	var out []FieldDefinition
	for _, f := range s.fields {
		if f.AppliesTo(profile) {
			out = append(out, f)
		}
	}
	return out
}

// SelectNames returns the ordered definitions matching the given field names,
// skipping names the schema does not know. Used by the custom profile.
func (s *Schema) SelectNames(names []string) []FieldDefinition {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []FieldDefinition
	for _, f := range s.fields {
		if want[f.Name] {
			out = append(out, f)
		}
	}
	return out
}
