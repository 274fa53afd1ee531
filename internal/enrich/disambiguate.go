package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/pkg/anthropic"
)

const linksSystemPrompt = `You are an expert at identifying the correct business information from scraped web data.
Your task is to analyze potential social media links for a business and determine which ones are most likely the official ones.

## Business Information
- Business Name: %s
- Business Location: %s
- Business Website URL: %s

Provide only the most probable link for each category, chosen from the supplied candidates. Never invent a link that is not in the candidate lists.
If no valid option exists for a category, return an empty string.
Respond with a valid JSON object: {"facebook": "", "twitter": "", "instagram": "", "contact": ""}`

const linksUserPrompt = `Potential Facebook links: %s
Potential Twitter links: %s
Potential Instagram links: %s
Potential Contact page links: %s`

const emailsSystemPrompt = `Identify all relevant business contact emails from the supplied candidates. Prioritize general contact addresses and emails of key personnel on the business's own domain. Include department-specific ones (e.g., press, events) only if no main contact is available. Fall back to free-mail or personal addresses only when no domain-matched address exists. If exactly one valid candidate exists, return it as the sole result. Never invent an address that is not in the candidate list.

## Business Information
- Business Name: %s
- Business Location: %s
- Business Website URL: %s

Respond with a valid JSON object: {"emails": []}`

// Resolver picks the authoritative links and emails out of noisy candidate
// sets. Implemented by Disambiguator; faked in tests.
type Resolver interface {
	ResolveLinks(ctx context.Context, cands model.CandidateLinks, biz model.Business) model.Enrichment
	ResolveEmails(ctx context.Context, emails []string, biz model.Business) []string
}

// Disambiguator resolves candidates with two schema-constrained Claude calls.
// Both calls run near-deterministic (low temperature): this is classification,
// not generation. A malformed or failed model response is treated as "no
// confident resolution", never as a fatal error.
type Disambiguator struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// NewDisambiguator creates a Disambiguator from an explicit config object.
func NewDisambiguator(client anthropic.Client, cfg config.AnthropicConfig) *Disambiguator {
	return &Disambiguator{client: client, cfg: cfg}
}

// ResolveLinks selects the single most probable URL per category. Any URL the
// model returns that is not among the supplied candidates is discarded.
func (d *Disambiguator) ResolveLinks(ctx context.Context, cands model.CandidateLinks, biz model.Business) model.Enrichment {
	system := fmt.Sprintf(linksSystemPrompt, biz.Name, biz.Address, biz.Website)
	user := fmt.Sprintf(linksUserPrompt,
		formatCandidates(cands[model.CategoryFacebook]),
		formatCandidates(cands[model.CategoryTwitter]),
		formatCandidates(cands[model.CategoryInstagram]),
		formatCandidates(cands[model.CategoryContact]),
	)

	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.cfg.Model,
		MaxTokens:   d.cfg.MaxTokens,
		System:      system,
		Temperature: &d.cfg.Temperature,
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
	})
	if err != nil {
		zap.L().Warn("disambiguate: resolve links failed",
			zap.String("business", biz.Name),
			zap.Error(err),
		)
		return model.Enrichment{}
	}
	resp.Usage.LogCost(d.cfg.Model, "resolve_links")

	var parsed struct {
		Facebook  string `json:"facebook"`
		Twitter   string `json:"twitter"`
		Instagram string `json:"instagram"`
		Contact   string `json:"contact"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(extractText(resp))), &parsed); err != nil {
		zap.L().Warn("disambiguate: malformed links response",
			zap.String("business", biz.Name),
			zap.Error(err),
		)
		return model.Enrichment{}
	}

	return model.Enrichment{
		Facebook:  keepCandidate(parsed.Facebook, cands[model.CategoryFacebook]),
		Twitter:   keepCandidate(parsed.Twitter, cands[model.CategoryTwitter]),
		Instagram: keepCandidate(parsed.Instagram, cands[model.CategoryInstagram]),
		Contact:   keepCandidate(parsed.Contact, cands[model.CategoryContact]),
	}
}

// ResolveEmails selects the subset of candidate emails that are genuine
// business contacts. Addresses the model returns that were not candidates are
// discarded.
func (d *Disambiguator) ResolveEmails(ctx context.Context, emails []string, biz model.Business) []string {
	system := fmt.Sprintf(emailsSystemPrompt, biz.Name, biz.Address, biz.Website)
	user := "Potential emails: " + formatCandidates(emails)

	resp, err := d.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       d.cfg.Model,
		MaxTokens:   d.cfg.MaxTokens,
		System:      system,
		Temperature: &d.cfg.Temperature,
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
	})
	if err != nil {
		zap.L().Warn("disambiguate: resolve emails failed",
			zap.String("business", biz.Name),
			zap.Error(err),
		)
		return nil
	}
	resp.Usage.LogCost(d.cfg.Model, "resolve_emails")

	var parsed struct {
		Emails []string `json:"emails"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(extractText(resp))), &parsed); err != nil {
		zap.L().Warn("disambiguate: malformed emails response",
			zap.String("business", biz.Name),
			zap.Error(err),
		)
		return nil
	}

	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(e)] = true
	}
	var kept []string
	for _, e := range parsed.Emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if allowed[e] {
			kept = append(kept, e)
		}
	}
	return kept
}

// keepCandidate returns pick only if it appears in the candidate list.
func keepCandidate(pick string, cands []string) string {
	pick = strings.TrimSpace(pick)
	if pick == "" {
		return ""
	}
	for _, c := range cands {
		if c == pick {
			return pick
		}
	}
	return ""
}

func formatCandidates(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// extractText concatenates all text content blocks from a message response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, block := range resp.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
