package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Region groups sources and drafts by editorial geography.
type Region string

const (
	RegionKazakhstan  Region = "Kazakhstan"
	RegionCentralAsia Region = "CentralAsia"
	RegionWorld       Region = "World"
)

// StaticPriority returns the baseline priority for a region; lower is preferred.
func (r Region) StaticPriority() int {
	switch r {
	case RegionKazakhstan:
		return 0
	case RegionCentralAsia:
		return 1
	default:
		return 2
	}
}

// Candidate is an unpersisted news item considered during a single run.
type Candidate struct {
	Title       string
	URL         string
	Snippet     string
	Region      Region
	Priority    int
	Source      string
	PublishedAt time.Time
}

const dedupKeyLen = 100

// DedupKey is the unique key used against posted_news and pending_posts.
// Falls back to a snippet prefix when the item carries no URL.
func (c Candidate) DedupKey() string {
	if c.URL != "" {
		return c.URL
	}
	snippet := strings.Join(strings.Fields(c.Snippet), " ")
	if utf8.RuneCountInString(snippet) <= dedupKeyLen {
		return snippet
	}
	return string([]rune(snippet)[:dedupKeyLen])
}

// Text returns the lower-cased title+snippet used by filters and judges.
func (c Candidate) Text() string {
	return strings.ToLower(c.Title + " " + c.Snippet)
}

// DraftStatus tracks a pending post through the approval state machine.
type DraftStatus string

const (
	StatusPending      DraftStatus = "pending"
	StatusApproved     DraftStatus = "approved"
	StatusRejected     DraftStatus = "rejected"
	StatusExpired      DraftStatus = "expired"
	StatusBulkPending  DraftStatus = "bulk_pending"
	StatusBulkApproved DraftStatus = "bulk_approved"
)

// Terminal reports whether no further transitions are allowed.
func (s DraftStatus) Terminal() bool {
	return s != StatusPending && s != StatusBulkPending
}

// PendingPost is a generated draft awaiting (or past) a review decision.
// Everything except Status is immutable after creation.
type PendingPost struct {
	ID           string
	Title        string
	URL          string
	PostText     string
	ImageURL     string
	Region       Region
	Status       DraftStatus
	QualityScore int
	CreatedAt    time.Time
}

// NewsType distinguishes published content categories.
type NewsType string

const (
	NewsTypeNews      NewsType = "NEWS"
	NewsTypeEducation NewsType = "EDUCATION"
)

// PostedNews is the append-only publication record and primary exact-dedup signal.
type PostedNews struct {
	URLText           string
	NewsType          NewsType
	ShareabilityScore int
	SourceType        string
	Title             string
	CreatedAt         time.Time
}

// NegativeConstraint is a durable human-authored rule. PostContent, when
// present, carries the rejected draft as a concrete anti-example.
type NegativeConstraint struct {
	ID          int64
	Feedback    string
	PostContent string
	CreatedAt   time.Time
}

// Decision labels a review outcome on a PostMetric row.
type Decision string

const (
	DecisionApproved     Decision = "approved"
	DecisionRejected     Decision = "rejected"
	DecisionBulkApproved Decision = "bulk_approved"
)

// PostMetric captures the measurable properties of one human decision.
// Read-only reporting data; it never feeds back into generation.
type PostMetric struct {
	PendingID        string
	Region           Region
	Decision         Decision
	RejectReason     string
	UserRating       int
	CharCount        int
	HasNumbers       bool
	HasVagueLanguage bool
	SourceURL        string
}

// FeedbackIntent is the structured reading of accumulated feedback strings.
type FeedbackIntent struct {
	Prohibitions         []string
	RegionBoosts         []Region
	StageBoost           bool
	PriorityInstructions []string
}

// BoostsRegion reports whether the intent asks for more coverage of r.
func (f FeedbackIntent) BoostsRegion(r Region) bool {
	for _, boosted := range f.RegionBoosts {
		if boosted == r {
			return true
		}
	}
	return false
}

// HasBoosts reports whether any region emphasis is active.
func (f FeedbackIntent) HasBoosts() bool {
	return len(f.RegionBoosts) > 0
}
