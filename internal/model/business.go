package model

import "strings"

// Status tracks whether a business record has been through an enrichment pass.
type Status string

const (
	StatusPending Status = "NO"
	StatusDone    Status = "YES"
)

// ParseStatus maps a workbook cell value to a Status. Anything other than
// "YES" (case-insensitive) is pending, so partially filled sheets stay safe
// to reprocess.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusDone)) {
		return StatusDone
	}
	return StatusPending
}

// EmailSeparator joins multiple resolved emails into the single workbook cell.
const EmailSeparator = " || "

// Business is one row of the working set: identity from the discovery step,
// contact surfaces filled in by enrichment.
type Business struct {
	Name        string
	Address     string
	Website     string
	Phone       string
	Description string
	Rating      string
	Reviews     string
	Category    string
	Keywords    string

	Email     string
	Facebook  string
	Twitter   string
	Instagram string
	Contact   string

	Status Status
}

// Eligible reports whether the record should be processed in this pass.
// Records without a website are skipped outright, never treated as errors.
func (b *Business) Eligible() bool {
	return b.Website != "" && b.Status != StatusDone
}

// LinkCategory names one bucket of candidate links.
type LinkCategory string

const (
	CategoryFacebook  LinkCategory = "facebook"
	CategoryTwitter   LinkCategory = "twitter"
	CategoryInstagram LinkCategory = "instagram"
	CategoryYouTube   LinkCategory = "youtube"
	CategoryLinkedIn  LinkCategory = "linkedin"
	CategoryContact   LinkCategory = "contact"
)

// AllCategories returns every link category in a stable order.
func AllCategories() []LinkCategory {
	return []LinkCategory{
		CategoryFacebook,
		CategoryTwitter,
		CategoryInstagram,
		CategoryYouTube,
		CategoryLinkedIn,
		CategoryContact,
	}
}

// CandidateLinks maps each category to its candidate URLs in first-seen order.
// Every category key is always present; categories with no matches hold an
// empty slice. Scoped to a single fetch.
type CandidateLinks map[LinkCategory][]string

// NewCandidateLinks returns a CandidateLinks with every category initialized.
func NewCandidateLinks() CandidateLinks {
	cl := make(CandidateLinks, len(AllCategories()))
	for _, c := range AllCategories() {
		cl[c] = []string{}
	}
	return cl
}

// Enrichment is the per-record result of a disambiguation pass: at most one
// resolved URL per category plus the set of resolved contact emails.
type Enrichment struct {
	Facebook  string
	Twitter   string
	Instagram string
	Contact   string
	Emails    []string
}

// Empty reports whether the pass produced no data at all.
func (e Enrichment) Empty() bool {
	return e.Facebook == "" && e.Twitter == "" && e.Instagram == "" &&
		e.Contact == "" && len(e.Emails) == 0
}

// EmailField renders the resolved emails as a single workbook cell.
func (e Enrichment) EmailField() string {
	return strings.Join(e.Emails, EmailSeparator)
}
