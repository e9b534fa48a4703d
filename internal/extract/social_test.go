package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSocialLinks(t *testing.T) {
	t.Parallel()

	p := mustPage(t, `<html><body><footer>
		<a href="https://www.facebook.com/acmelaw">Facebook</a>
		<a href="https://x.com/acmelaw">X</a>
		<a href="https://www.instagram.com/acmelaw/">Instagram</a>
		<a href="https://wa.me/972555555555">WhatsApp</a>
		<a href="/contact">Contact</a>
	</footer></body></html>`)

	v := extractSocialLinks(p)
	require.NotNil(t, v)
	links := v.(map[string]any)

	assert.Equal(t, "https://www.facebook.com/acmelaw", links["facebook"])
	assert.Equal(t, "https://x.com/acmelaw", links["twitter"])
	assert.Equal(t, "https://www.instagram.com/acmelaw/", links["instagram"])
	assert.Equal(t, "https://wa.me/972555555555", links["whatsapp"])
	assert.NotContains(t, links, "linkedin")
	assert.NotContains(t, links, "youtube")
}

func TestExtractSocialLinks_LastLinkWins(t *testing.T) {
	t.Parallel()

	p := mustPage(t, `<html><body>
		<a href="https://facebook.com/old-page">old</a>
		<a href="https://facebook.com/new-page">new</a>
	</body></html>`)

	links := extractSocialLinks(p).(map[string]any)
	assert.Equal(t, "https://facebook.com/new-page", links["facebook"])
}

func TestExtractSocialLinks_None(t *testing.T) {
	t.Parallel()

	p := mustPage(t, `<html><body><a href="/about">About</a></body></html>`)
	assert.Nil(t, extractSocialLinks(p))
}
