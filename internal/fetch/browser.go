package fetch

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.0.0 Safari/537.36"

// defaultNavTimeout bounds a single page navigation.
const defaultNavTimeout = 60 * time.Second

// BrowserFetcher fetches pages through headless Chrome. Every Fetch runs in
// its own allocator and browser context so no cookies, cache, or crashed tab
// state leaks between records.
type BrowserFetcher struct {
	timeout   time.Duration
	userAgent string
}

// BrowserOption configures a BrowserFetcher.
type BrowserOption func(*BrowserFetcher)

// WithTimeout overrides the per-navigation timeout.
func WithTimeout(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) BrowserOption {
	return func(f *BrowserFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// NewBrowserFetcher creates a BrowserFetcher with sensible defaults.
func NewBrowserFetcher(opts ...BrowserOption) *BrowserFetcher {
	f := &BrowserFetcher{
		timeout:   defaultNavTimeout,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch navigates to targetURL, renders it, and returns link-preserving text
// plus (optionally) the raw hyperlink list. Sites with broken certificates
// must still be readable, so certificate errors are ignored.
func (f *BrowserFetcher) Fetch(ctx context.Context, targetURL string, wantLinks bool) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-http2", true),
		chromedp.UserAgent(f.userAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	headers := network.Headers{
		"Accept-Language": "en-US,en;q=0.9",
		"Referer":         "https://www.google.com/",
	}

	var html, finalURL string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: navigate")
	}

	text, err := HTMLToText(html)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: convert html")
	}

	page := &Page{URL: finalURL, Text: text}
	if wantLinks {
		page.Links = ExtractLinks(html, finalURL)
	}

	zap.L().Debug("fetch: page retrieved",
		zap.String("url", targetURL),
		zap.Int("text_len", len(text)),
		zap.Int("links", len(page.Links)),
	)

	return page, nil
}
