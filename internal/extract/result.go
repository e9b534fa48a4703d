package extract

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Result maps field names to extracted values, preserving schema order.
// Values are canonical JSON shapes: string, []any, map[string]any, or nil
// for a field the page did not yield. A Result is immutable once returned
// by the engine.
type Result struct {
	names  []string
	values map[string]any
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{values: make(map[string]any)}
}

// Set records a value for a field. First insertion fixes the field's
// position; later Sets overwrite in place.
func (r *Result) Set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Get returns the value for a field and whether the field is present.
func (r *Result) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns the field names in insertion order.
func (r *Result) Names() []string {
	return r.names
}

// Len returns the number of fields.
func (r *Result) Len() int {
	return len(r.names)
}

// Values returns the underlying map. Callers must treat it as read-only.
func (r *Result) Values() map[string]any {
	return r.values
}

// MarshalJSON encodes the result as a JSON object in field order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (r *Result) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "result: decode")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return eris.New("result: expected JSON object")
	}

	r.names = nil
	r.values = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "result: decode key")
		}
		key := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return eris.Wrapf(err, "result: decode value for %q", key)
		}
		var val any
		if err := json.Unmarshal(raw, &val); err != nil {
			return eris.Wrapf(err, "result: parse value for %q", key)
		}
		r.Set(key, val)
	}
	return nil
}
