package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText_PreservesLinks(t *testing.T) {
	html := `<html><body><p>Follow us on <a href="https://twitter.com/acme">Twitter</a></p></body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Twitter (https://twitter.com/acme)")
}

func TestHTMLToText_DropsScriptsAndChrome(t *testing.T) {
	html := `<html><body>
		<nav>Menu Menu Menu</nav>
		<script>var x = "secret@script.com";</script>
		<style>.a { color: red }</style>
		<p>Email us at info@acme.com</p>
		<footer>Copyright</footer>
	</body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "info@acme.com")
	assert.NotContains(t, text, "secret@script.com")
	assert.NotContains(t, text, "Menu Menu Menu")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Copyright")
}

func TestHTMLToText_BareAnchorKeepsHref(t *testing.T) {
	html := `<body><a href="https://acme.com/contact"><img src="x.png"></a></body>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "https://acme.com/contact")
}

func TestHTMLToText_CollapsesWhitespace(t *testing.T) {
	html := "<body><p>a    b</p>\n\n\n\n<p>c</p></body>"

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.NotContains(t, text, "  ")
	assert.NotContains(t, text, "\n\n\n")
}
