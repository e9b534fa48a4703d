package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditasap/bizscope/internal/schema"
)

func fieldsFromJSON(t *testing.T, data string) []schema.FieldDefinition {
	t.Helper()
	s, err := schema.Load([]byte(data))
	require.NoError(t, err)
	return s.Fields()
}

func TestExtract_PatternFields(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	fields := fieldsFromJSON(t, `[
		{"field": "טלפון", "type": "string", "regex": "(?:\\+972[- ]?|0)[2-9]{1}-?\\d{7}", "profiles": ["business"]},
		{"field": "דוא\"ל", "type": "email", "regex": "[\\w.-]+@[\\w.-]+\\.[a-z]{2,}", "profiles": ["business"]}
	]`)

	t.Run("hebrew page with phone", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><body><p>טלפון: 03-5555555</p></body></html>`)
		result := engine.Extract(p, fields)

		phone, ok := result.Get("טלפון")
		require.True(t, ok)
		assert.Equal(t, "03-5555555", phone)
	})

	t.Run("first match wins", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><body>03-1111111 ... 03-2222222</body></html>`)
		result := engine.Extract(p, fields)

		phone, _ := result.Get("טלפון")
		assert.Equal(t, "03-1111111", phone)
	})

	t.Run("absent email yields nil without error", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><body><p>no contact info here</p></body></html>`)
		result := engine.Extract(p, fields)

		email, ok := result.Get("דוא\"ל")
		assert.True(t, ok, "field must be present in the result")
		assert.Nil(t, email)
	})

	t.Run("email from mailto when pattern misses text", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><body><a href="mailto:office@lawfirm.co.il?subject=hi">צרו קשר</a></body></html>`)
		result := engine.Extract(p, fields)

		email, _ := result.Get("דוא\"ל")
		assert.Equal(t, "office@lawfirm.co.il", email)
	})
}

func TestExtract_ResultOrderMatchesSchema(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	fields := fieldsFromJSON(t, `[
		{"field": "שם העסק", "type": "string", "profiles": ["business"]},
		{"field": "טלפון", "type": "string", "regex": "0\\d-?\\d{7}", "profiles": ["business"]},
		{"field": "קישורים לרשתות", "type": "object", "profiles": ["business"]}
	]`)

	p := mustPage(t, `<html><head><title>עסק</title></head><body></body></html>`)
	result := engine.Extract(p, fields)

	assert.Equal(t, []string{"שם העסק", "טלפון", "קישורים לרשתות"}, result.Names())
}

func TestExtract_UnknownFieldRole(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	fields := fieldsFromJSON(t, `[
		{"field": "invented field", "type": "array", "profiles": ["business"]}
	]`)

	p := mustPage(t, `<html><body>content</body></html>`)
	result := engine.Extract(p, fields)

	v, ok := result.Get("invented field")
	assert.True(t, ok)
	assert.Nil(t, v, "unbound field degrades to missing, not error")
}

func TestExtract_WithRoleBinding(t *testing.T) {
	t.Parallel()

	engine := NewEngine().WithRole("staff roster", RoleTeam)
	fields := fieldsFromJSON(t, `[
		{"field": "staff roster", "type": "array", "profiles": ["business"]}
	]`)

	p := mustPage(t, `<html><body>
		<ul id="team"><li><strong>Dana Katz</strong></li></ul>
	</body></html>`)
	result := engine.Extract(p, fields)

	v, _ := result.Get("staff roster")
	require.NotNil(t, v)
	assert.Equal(t, "Dana Katz", v.([]any)[0].(map[string]any)["שם"])
}

func TestExtract_BusinessName(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	fields := fieldsFromJSON(t, `[
		{"field": "שם העסק", "type": "string", "profiles": ["business"]}
	]`)

	t.Run("prefers sized h1", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><head><title>Fallback Title</title></head>
			<body><h1>x</h1><h1>משרד עו"ד כהן ושות'</h1></body></html>`)
		result := engine.Extract(p, fields)
		name, _ := result.Get("שם העסק")
		assert.Equal(t, `משרד עו"ד כהן ושות'`, name)
	})

	t.Run("falls back to logo alt", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><body><img class="site-logo" src="/l.png" alt="מרפאת לוי"></body></html>`)
		result := engine.Extract(p, fields)
		name, _ := result.Get("שם העסק")
		assert.Equal(t, "מרפאת לוי", name)
	})

	t.Run("falls back to title", func(t *testing.T) {
		t.Parallel()
		p := mustPage(t, `<html><head><title>עסק כללי</title></head><body></body></html>`)
		result := engine.Extract(p, fields)
		name, _ := result.Get("שם העסק")
		assert.Equal(t, "עסק כללי", name)
	})
}

func TestExtract_URLType(t *testing.T) {
	t.Parallel()

	engine := NewEngine()
	fields := fieldsFromJSON(t, `[
		{"field": "לוגו", "type": "url", "profiles": ["business"]}
	]`)

	p := mustPage(t, `<html><body><img id="logo" src="/assets/logo.png"></body></html>`)
	result := engine.Extract(p, fields)

	logo, _ := result.Get("לוגו")
	assert.Equal(t, "https://acme.example/assets/logo.png", logo)
}
