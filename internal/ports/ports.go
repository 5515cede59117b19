package ports

import (
	"context"
	"time"

	"VentureScanner/internal/domain"
)

// CandidateSource pulls fresh candidates from an upstream provider (RSS,
// scraped site, search API). Empty or malformed responses yield zero
// candidates, not an error.
type CandidateSource interface {
	Name() string
	Fetch(ctx context.Context, since time.Time) ([]domain.Candidate, error)
}

// PendingRepository persists drafts and their review status.
type PendingRepository interface {
	Insert(ctx context.Context, post domain.PendingPost) (string, error)
	Get(ctx context.Context, id string) (domain.PendingPost, error)
	UpdateStatus(ctx context.Context, id string, status domain.DraftStatus) error
	HasOpenDraft(ctx context.Context, url string) (bool, error)
	SelectApproved(ctx context.Context, region domain.Region, limit int) ([]domain.PendingPost, error)
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// PostedRepository is the append-only publication log.
type PostedRepository interface {
	Exists(ctx context.Context, urlText string) (bool, error)
	Insert(ctx context.Context, record domain.PostedNews) error
	RecentTitles(ctx context.Context, limit int) ([]string, error)
}

// FeedbackRepository stores negative constraints and decision metrics.
type FeedbackRepository interface {
	InsertConstraint(ctx context.Context, constraint domain.NegativeConstraint) error
	ListConstraints(ctx context.Context) ([]domain.NegativeConstraint, error)
	RecentRejected(ctx context.Context, limit int) ([]domain.NegativeConstraint, error)
	InsertMetric(ctx context.Context, metric domain.PostMetric) error
}

// Generator turns a prompt into text. Failures are recoverable at the
// candidate level and surfaced to operators.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DuplicateJudge decides whether a candidate retells a story already covered
// by one of the recent texts. Implementations range from an LLM call to a
// deterministic heuristic; the pipeline treats it as a black box.
type DuplicateJudge interface {
	IsDuplicate(ctx context.Context, candidate domain.Candidate, recent []string) (bool, error)
}

// Messenger delivers posts to the channel and notices to operators.
type Messenger interface {
	Publish(ctx context.Context, text, imageURL string) error
	NotifyOperator(ctx context.Context, text string) error
}

// ImageFinder locates an illustration for a draft; empty result means none.
type ImageFinder interface {
	FindImage(ctx context.Context, articleURL, fallbackQuery string) (string, error)
}
