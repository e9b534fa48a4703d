package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	data := []byte(`[
		{"field": "טלפון", "type": "string", "example": "+972-3-5555555", "regex": "(?:\\+972[- ]?|0)[2-9]{1}-?\\d{7}", "profiles": ["law_firm", "doctor"]},
		{"field": "דוא\"ל", "type": "email", "example": "a@b.co.il", "regex": null, "profiles": ["law_firm"]},
		{"field": "צוות", "type": "array", "example": [], "regex": null, "profiles": ["law_firm"]}
	]`)

	s, err := Load(data)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	fields := s.Fields()
	assert.Equal(t, "טלפון", fields[0].Name)
	assert.Equal(t, TypeString, fields[0].Type)
	require.NotNil(t, fields[0].Pattern, "regex should be compiled at load")
	assert.Nil(t, fields[1].Pattern)
	assert.Equal(t, TypeArray, fields[2].Type)

	assert.NotNil(t, s.ByName("צוות"))
	assert.Nil(t, s.ByName("nonexistent"))
}

func TestLoad_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{"missing field key", `[{"type": "string", "profiles": []}]`},
		{"missing type key", `[{"field": "a", "profiles": []}]`},
		{"missing profiles key", `[{"field": "a", "type": "string"}]`},
		{"unknown type", `[{"field": "a", "type": "integer", "profiles": []}]`},
		{"invalid regex", `[{"field": "a", "type": "string", "regex": "(", "profiles": []}]`},
		{"not an array", `{"field": "a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load([]byte(tt.data))
			require.Error(t, err)
			var schemaErr *SchemaError
			assert.True(t, errors.As(err, &schemaErr), "want *SchemaError, got %T: %v", err, err)
		})
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	s, err := Load([]byte(`[
		{"field": "a", "type": "string", "profiles": ["law_firm", "doctor"]},
		{"field": "b", "type": "string", "profiles": ["doctor"]},
		{"field": "c", "type": "string", "profiles": ["law_firm"]},
		{"field": "d", "type": "object", "profiles": ["doctor", "business"]}
	]`))
	require.NoError(t, err)

	t.Run("preserves schema order", func(t *testing.T) {
		t.Parallel()
		selected := s.Select("doctor")
		require.Len(t, selected, 3)
		assert.Equal(t, "a", selected[0].Name)
		assert.Equal(t, "b", selected[1].Name)
		assert.Equal(t, "d", selected[2].Name)
		for _, f := range selected {
			assert.True(t, f.AppliesTo("doctor"))
		}
	})

	t.Run("unknown profile yields empty, not error", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, s.Select("florist"))
	})

	t.Run("SelectNames keeps schema order and skips unknown", func(t *testing.T) {
		t.Parallel()
		selected := s.SelectNames([]string{"d", "a", "zzz"})
		require.Len(t, selected, 2)
		assert.Equal(t, "a", selected[0].Name)
		assert.Equal(t, "d", selected[1].Name)
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	s := Default()
	require.NotZero(t, s.Len())

	// Stock schema covers the three built-in profiles.
	for _, profile := range []string{"law_firm", "doctor", "business"} {
		assert.NotEmpty(t, s.Select(profile), "profile %s selects no fields", profile)
	}

	// The phone field carries a compiled pattern.
	phone := s.ByName("טלפון")
	require.NotNil(t, phone)
	require.NotNil(t, phone.Pattern)
	assert.Equal(t, "03-5555555", phone.Pattern.FindString("טלפון: 03-5555555"))
}
