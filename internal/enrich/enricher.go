package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/fetch"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Runner runs the enrichment workflow for one business.
type Runner interface {
	Run(ctx context.Context, biz model.Business) model.Enrichment
}

// Enricher composes fetch, classification, email scanning, and model-assisted
// disambiguation into the per-record workflow.
type Enricher struct {
	fetcher  fetch.Fetcher
	resolver Resolver
}

// NewEnricher creates an Enricher.
func NewEnricher(f fetch.Fetcher, r Resolver) *Enricher {
	return &Enricher{fetcher: f, resolver: r}
}

// Run enriches a single business. A failed fetch yields an empty Enrichment,
// never an error: the caller still marks the record as attempted.
//
// When the home page yields no resolved email but a contact-page candidate
// exists, one fallback fetch of that page is made (text only) and the email
// resolution is retried on whatever it surfaces. Many small-business sites
// publish an email only on a dedicated contact page, so the second fetch is
// paid for only when needed. Link resolution is not retried on the contact
// page.
func (e *Enricher) Run(ctx context.Context, biz model.Business) model.Enrichment {
	page, err := e.fetcher.Fetch(ctx, biz.Website, true)
	if err != nil || page == nil {
		zap.L().Warn("enrich: home page fetch failed",
			zap.String("business", biz.Name),
			zap.String("url", biz.Website),
			zap.Error(err),
		)
		return model.Enrichment{}
	}

	cands := ClassifyLinks(page.Links)
	emails := ExtractEmails(page.Text)

	result := e.resolver.ResolveLinks(ctx, cands, biz)

	if len(emails) > 0 {
		result.Emails = e.resolver.ResolveEmails(ctx, emails, biz)
	}

	if len(result.Emails) == 0 {
		if contactURL := fallbackContactURL(cands, biz.Website); contactURL != "" {
			result.Emails = e.resolveFromContactPage(ctx, contactURL, biz)
		}
	}

	return result
}

// fallbackContactURL returns the first contact-page candidate when it differs
// from the home page URL, or "" if there is nothing worth a second fetch.
func fallbackContactURL(cands model.CandidateLinks, homeURL string) string {
	contacts := cands[model.CategoryContact]
	if len(contacts) == 0 {
		return ""
	}
	if contacts[0] == homeURL {
		return ""
	}
	return contacts[0]
}

func (e *Enricher) resolveFromContactPage(ctx context.Context, contactURL string, biz model.Business) []string {
	zap.L().Debug("enrich: falling back to contact page",
		zap.String("business", biz.Name),
		zap.String("url", contactURL),
	)

	page, err := e.fetcher.Fetch(ctx, contactURL, false)
	if err != nil || page == nil {
		zap.L().Warn("enrich: contact page fetch failed",
			zap.String("business", biz.Name),
			zap.String("url", contactURL),
			zap.Error(err),
		)
		return nil
	}

	emails := ExtractEmails(page.Text)
	if len(emails) == 0 {
		return nil
	}
	return e.resolver.ResolveEmails(ctx, emails, biz)
}
