package enrich

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ExtractEmails scans text for email-shaped tokens. Matches are lowercased
// before dedup — domains are case-insensitive and the odd mixed-case local
// part is an acceptable loss. First-seen order is kept.
func ExtractEmails(text string) []string {
	seen := make(map[string]bool)
	var emails []string
	for _, m := range emailRe.FindAllString(text, -1) {
		e := strings.ToLower(m)
		if !seen[e] {
			seen[e] = true
			emails = append(emails, e)
		}
	}
	return emails
}
