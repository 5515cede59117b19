package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"VentureScanner/internal/curation"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/editorial"
	"VentureScanner/internal/ports"
)

const seedDraftLimit = 15

// topicStopWords excludes generic vocabulary from bulk topic keys so that
// two articles about the same round collapse even when their titles share
// only the distinctive words.
var topicStopWords = map[string]struct{}{
	"стартап": {}, "стартапа": {}, "инвестиции": {}, "миллионов": {},
	"компания": {}, "казахстане": {}, "казахстана": {},
	"startup": {}, "million": {}, "funding": {}, "company": {},
	"raised": {}, "venture": {}, "capital": {}, "series": {},
}

// SeederDeps wires the archive seeding pass.
type SeederDeps struct {
	Source       ports.CandidateSource
	Pending      ports.PendingRepository
	Posted       ports.PostedRepository
	Filter       *curation.RelevanceFilter
	Shareability *curation.ShareabilityScorer
	Drafts       *editorial.DraftGenerator
	Messenger    ports.Messenger
	Logger       *slog.Logger
}

// Seeder backfills the bulk review lane from archive search results. Bulk
// drafts are never published; approving one only adds a style exemplar.
type Seeder struct {
	deps SeederDeps
}

// NewSeeder constructs the seeding pass.
func NewSeeder(deps SeederDeps) *Seeder {
	return &Seeder{deps: deps}
}

// Run fetches archive candidates, filters and dedups them, generates drafts
// for the most shareable survivors, and reports counts to the operator.
func (s *Seeder) Run(ctx context.Context) error {
	d := s.deps

	candidates, err := d.Source.Fetch(ctx, time.Time{})
	if err != nil {
		return fmt.Errorf("fetch archive candidates: %w", err)
	}
	s.info("archive fetch done", "candidates", len(candidates))

	survivors, err := s.filterAndDedup(ctx, candidates)
	if err != nil {
		return err
	}

	passed := len(survivors)
	sort.SliceStable(survivors, func(i, j int) bool {
		return d.Shareability.Score(survivors[i]) > d.Shareability.Score(survivors[j])
	})
	if len(survivors) > seedDraftLimit {
		survivors = survivors[:seedDraftLimit]
	}

	created := 0
	for _, candidate := range survivors {
		draft, err := d.Drafts.Generate(ctx, editorial.PromptInput{Candidate: candidate})
		if err != nil {
			s.info("seed generation failed, skipping", "title", candidate.Title, "error", err)
			continue
		}

		_, err = d.Pending.Insert(ctx, domain.PendingPost{
			Title:        candidate.Title,
			URL:          candidate.DedupKey(),
			PostText:     draft.Text,
			Region:       candidate.Region,
			Status:       domain.StatusBulkPending,
			QualityScore: draft.Report.Score,
		})
		if err != nil {
			s.info("seed insert failed, skipping", "title", candidate.Title, "error", err)
			continue
		}
		created++
	}

	s.notify(ctx, fmt.Sprintf(
		"Архивный посев завершён.\nНайдено: %d\nПрошло фильтры: %d\nЧерновиков создано: %d",
		len(candidates), passed, created))
	return nil
}

// filterAndDedup applies relevance rules, exact key checks, and the topic
// collapse. Archive items routinely repeat one story across many outlets, so
// the topic key matters more here than in the daily run.
func (s *Seeder) filterAndDedup(ctx context.Context, candidates []domain.Candidate) ([]domain.Candidate, error) {
	d := s.deps

	seenTopics := make(map[string]struct{})
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		verdict := d.Filter.Check(candidate, nil)
		if !verdict.Accepted {
			continue
		}

		key := candidate.DedupKey()
		published, err := d.Posted.Exists(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check posted %s: %w", key, err)
		}
		if published {
			continue
		}
		open, err := d.Pending.HasOpenDraft(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("check pending %s: %w", key, err)
		}
		if open {
			continue
		}

		if topic := curation.TopicKey(candidate.Title, topicStopWords); topic != "" {
			if _, dup := seenTopics[topic]; dup {
				continue
			}
			seenTopics[topic] = struct{}{}
		}

		kept = append(kept, candidate)
	}
	s.info("seed filter done", "in", len(candidates), "out", len(kept))
	return kept, nil
}

func (s *Seeder) notify(ctx context.Context, text string) {
	if s.deps.Messenger == nil {
		return
	}
	if err := s.deps.Messenger.NotifyOperator(ctx, text); err != nil {
		s.info("operator notification failed", "error", err)
	}
}

func (s *Seeder) info(msg string, args ...any) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, args...)
	}
}
