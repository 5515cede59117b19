package curation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// ErrAllDuplicates signals that every surviving candidate retold an already
// covered story. A legitimate "nothing new today" outcome, not a failure.
var ErrAllDuplicates = errors.New("all candidates judged duplicates")

const (
	recentPostedLimit   = 10
	recentRejectedLimit = 10
)

// Deduplicator runs the two-tier duplicate checks: exact key lookups against
// the store and a semantic judgment on the provisional best candidate only.
type Deduplicator struct {
	pending ports.PendingRepository
	posted  ports.PostedRepository
	rejects ports.FeedbackRepository
	judge   ports.DuplicateJudge
	logger  *slog.Logger
}

// NewDeduplicator wires the repositories and the pluggable judge.
func NewDeduplicator(pending ports.PendingRepository, posted ports.PostedRepository, rejects ports.FeedbackRepository, judge ports.DuplicateJudge, logger *slog.Logger) *Deduplicator {
	return &Deduplicator{
		pending: pending,
		posted:  posted,
		rejects: rejects,
		judge:   judge,
		logger:  logger,
	}
}

// FilterSeen drops candidates whose dedup key already exists in posted_news
// or in a non-terminal pending draft.
func (d *Deduplicator) FilterSeen(ctx context.Context, candidates []domain.Candidate) ([]domain.Candidate, error) {
	fresh := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		key := candidate.DedupKey()

		published, err := d.posted.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check posted %s: %w", key, err)
		}
		if published {
			d.debug("drop published duplicate", "key", key)
			continue
		}

		open, err := d.pending.HasOpenDraft(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check pending %s: %w", key, err)
		}
		if open {
			d.debug("drop open-draft duplicate", "key", key)
			continue
		}

		fresh = append(fresh, candidate)
	}
	return fresh, nil
}

// PickFresh walks the priority-sorted list and returns the first candidate
// the judge does not flag as a retelling of recent coverage. The semantic
// call is expensive, so it only ever runs on the current front-runner.
func (d *Deduplicator) PickFresh(ctx context.Context, sorted []domain.Candidate) (domain.Candidate, error) {
	if len(sorted) == 0 {
		return domain.Candidate{}, ErrAllDuplicates
	}

	recent, err := d.recentCoverage(ctx)
	if err != nil {
		return domain.Candidate{}, err
	}
	if len(recent) == 0 || d.judge == nil {
		return sorted[0], nil
	}

	for _, candidate := range sorted {
		duplicate, err := d.judge.IsDuplicate(ctx, candidate, recent)
		if err != nil {
			// A failing judge must not block the run; assume fresh.
			d.debug("duplicate judge failed", "error", err, "url", candidate.URL)
			return candidate, nil
		}
		if !duplicate {
			return candidate, nil
		}
		d.debug("semantic duplicate", "title", candidate.Title)
	}

	return domain.Candidate{}, ErrAllDuplicates
}

func (d *Deduplicator) recentCoverage(ctx context.Context) ([]string, error) {
	titles, err := d.posted.RecentTitles(ctx, recentPostedLimit)
	if err != nil {
		return nil, fmt.Errorf("recent posted titles: %w", err)
	}

	rejected, err := d.rejects.RecentRejected(ctx, recentRejectedLimit)
	if err != nil {
		return nil, fmt.Errorf("recent rejected: %w", err)
	}

	recent := make([]string, 0, len(titles)+len(rejected))
	recent = append(recent, titles...)
	for _, constraint := range rejected {
		if constraint.PostContent != "" {
			recent = append(recent, constraint.PostContent)
		}
	}
	return recent, nil
}

func (d *Deduplicator) debug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

// TopicKey collapses a title into a stable key of its first three informative
// words (longer than four runes, not a stop word), used by the bulk lane to
// drop same-story items that arrive under different URLs.
func TopicKey(title string, stopWords map[string]struct{}) string {
	words := make([]string, 0, 3)
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,:;!?()\"'«»")
		if len([]rune(word)) <= 4 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		words = append(words, word)
		if len(words) == 3 {
			break
		}
	}
	if len(words) == 0 {
		return ""
	}
	sort.Strings(words)
	return strings.Join(words, " ")
}
