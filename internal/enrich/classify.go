// Package enrich implements the per-record contact enrichment workflow:
// classify candidate links, scan for emails, and resolve both through a
// model-assisted disambiguation step.
package enrich

import (
	"regexp"
	"strings"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Social platform patterns are anchored at the start of the URL; the contact
// category is a plain substring search since contact pages live at arbitrary
// paths (/en/contact-us, /about/contact).
var categoryPatterns = map[model.LinkCategory]*regexp.Regexp{
	model.CategoryYouTube:   regexp.MustCompile(`(?i)^(https?://)?(www\.)?(youtube\.com|youtu\.be)/`),
	model.CategoryTwitter:   regexp.MustCompile(`(?i)^(https?://)?(www\.)?(twitter\.com|x\.com)/`),
	model.CategoryFacebook:  regexp.MustCompile(`(?i)^(https?://)?(www\.)?facebook\.com/`),
	model.CategoryInstagram: regexp.MustCompile(`(?i)^(https?://)?(www\.)?instagram\.com/`),
	model.CategoryLinkedIn:  regexp.MustCompile(`(?i)^(https?://)?([a-z]{2,3}\.)?linkedin\.com/`),
}

// ClassifyLinks partitions a link list into candidate categories. Every
// category is present in the result; unmatched categories hold empty lists.
// Input order is preserved within each category.
func ClassifyLinks(urls []string) model.CandidateLinks {
	cl := model.NewCandidateLinks()
	for _, u := range urls {
		for cat, re := range categoryPatterns {
			if re.MatchString(u) {
				cl[cat] = append(cl[cat], u)
			}
		}
		if strings.Contains(strings.ToLower(u), "contact") {
			cl[model.CategoryContact] = append(cl[model.CategoryContact], u)
		}
	}
	return cl
}
