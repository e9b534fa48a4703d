package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aditasap/bizscope/internal/page"
)

// mustPage parses HTML into a Page rooted at a fixed test URL.
func mustPage(t *testing.T, html string) *page.Page {
	t.Helper()
	p, err := page.New("https://acme.example/", html)
	require.NoError(t, err)
	return p
}
