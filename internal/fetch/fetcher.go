// Package fetch retrieves rendered page content through a headless browser
// and converts it into link-preserving text for downstream scanning.
package fetch

import "context"

// Page holds the fetched content for a single URL.
type Page struct {
	URL   string // final URL after redirects
	Text  string // link-preserving plaintext rendering of the page
	Links []string
}

// Fetcher retrieves a single page. Link extraction is optional because the
// contact-page fallback only needs text.
type Fetcher interface {
	Fetch(ctx context.Context, url string, wantLinks bool) (*Page, error)
}
