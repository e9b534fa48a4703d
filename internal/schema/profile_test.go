package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfiles(t *testing.T) {
	t.Parallel()

	c, err := LoadProfiles([]byte(`{
		"law_firm": {"profile_name": "משרד עו\"ד", "fields": ["a", "b"], "mandatory_fields": ["a"]},
		"custom": {"profile_name": "מותאם אישית", "fields": [], "mandatory_fields": []}
	}`))
	require.NoError(t, err)

	p := c.Get("law_firm")
	require.NotNil(t, p)
	assert.Equal(t, "law_firm", p.Key)
	assert.Equal(t, "משרד עו\"ד", p.DisplayName)
	assert.False(t, p.IsCustom())
	assert.True(t, c.Get("custom").IsCustom())
	assert.Nil(t, c.Get("florist"))
	assert.Equal(t, []string{"custom", "law_firm"}, c.Keys())
}

func TestLoadProfiles_BadJSON(t *testing.T) {
	t.Parallel()
	_, err := LoadProfiles([]byte(`[]`))
	assert.Error(t, err)
}

func TestDefaultProfiles(t *testing.T) {
	t.Parallel()

	c := DefaultProfiles()
	for _, key := range []string{"law_firm", "doctor", "business", "custom"} {
		require.NotNil(t, c.Get(key), "missing stock profile %s", key)
	}
	assert.NotEmpty(t, c.Get("law_firm").MandatoryFields)
	assert.Empty(t, c.Get("custom").Fields)
}

func TestMissingMandatory(t *testing.T) {
	t.Parallel()

	p := &Profile{
		Key:             "law_firm",
		MandatoryFields: []string{"שם העסק", "כתובת", "טלפון"},
	}

	missing := p.MissingMandatory(map[string]any{
		"שם העסק": "עו\"ד כהן",
		"כתובת":   nil,
		"טלפון":   "",
	})
	assert.Equal(t, []string{"כתובת", "טלפון"}, missing)

	assert.Empty(t, p.MissingMandatory(map[string]any{
		"שם העסק": "a", "כתובת": "b", "טלפון": "c",
	}))
}
