package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"VentureScanner/internal/curation"
	"VentureScanner/internal/domain"
	"VentureScanner/internal/editorial"
	"VentureScanner/internal/feedback"
	"VentureScanner/internal/ports"
)

const (
	styleExampleLimit = 3
	antiExampleLimit  = 4
	scrapeThreshold   = 5
	sourcePause       = 500 * time.Millisecond
)

// PipelineDeps wires all driven adapters into the curation pipeline.
type PipelineDeps struct {
	Sources      []ports.CandidateSource
	TopUpSources []ports.CandidateSource
	Pending      ports.PendingRepository
	Feedback     ports.FeedbackRepository
	Filter       *curation.RelevanceFilter
	Priorities   *curation.PriorityResolver
	Dedup        *curation.Deduplicator
	Shareability *curation.ShareabilityScorer
	IntentParser *feedback.IntentParser
	Drafts       *editorial.DraftGenerator
	Images       ports.ImageFinder
	Messenger    ports.Messenger
	ExpireStale  func(ctx context.Context) (int, error)
	Logger       *slog.Logger
	Now          func() time.Time
	Sleep        func(time.Duration)
}

// Pipeline runs one full curation cycle: expiry sweep, collection,
// filtering, dedup, prioritization, generation, and draft creation.
type Pipeline struct {
	deps PipelineDeps
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = time.Sleep
	}
	return &Pipeline{deps: deps}
}

// Run executes a single cycle. Operators are notified at start and about the
// outcome in every case: a new draft, nothing fresh, all duplicates, or a
// fatal error.
func (p *Pipeline) Run(ctx context.Context) error {
	d := p.deps

	p.notify(ctx, "Запускаю поиск новостей.")

	if d.ExpireStale != nil {
		if _, err := d.ExpireStale(ctx); err != nil {
			return p.fatal(ctx, fmt.Errorf("expiry sweep: %w", err))
		}
	}

	constraints, err := d.Feedback.ListConstraints(ctx)
	if err != nil {
		return p.fatal(ctx, fmt.Errorf("load constraints: %w", err))
	}
	intent := d.IntentParser.Parse(constraints)

	candidates := p.collect(ctx, d.Sources)
	if len(candidates) < scrapeThreshold && len(d.TopUpSources) > 0 {
		p.info("few candidates, engaging top-up sources", "count", len(candidates))
		candidates = append(candidates, p.collect(ctx, d.TopUpSources)...)
	}

	filtered := p.applyFilter(candidates, intent)
	if len(filtered) == 0 {
		p.notify(ctx, "Новых подходящих новостей не найдено.")
		return nil
	}

	fresh, err := d.Dedup.FilterSeen(ctx, filtered)
	if err != nil {
		return p.fatal(ctx, fmt.Errorf("exact dedup: %w", err))
	}
	if len(fresh) == 0 {
		p.notify(ctx, "Все найденные новости уже публиковались.")
		return nil
	}

	sorted := d.Priorities.Resolve(fresh, intent)

	best, err := d.Dedup.PickFresh(ctx, sorted)
	if errors.Is(err, curation.ErrAllDuplicates) {
		p.notify(ctx, "Все кандидаты — пересказы уже освещённых историй.")
		return nil
	}
	if err != nil {
		return p.fatal(ctx, fmt.Errorf("semantic dedup: %w", err))
	}

	draftID, err := p.produceDraft(ctx, best, constraints, intent)
	if err != nil {
		// Generator failure for the selected candidate aborts the cycle;
		// no fallback candidate is retried from scratch.
		return p.fatal(ctx, err)
	}

	p.notify(ctx, fmt.Sprintf(
		"Черновик создан и ждёт ревью.\nРегион: %s\nЗначимость: %d/10\nЗаголовок: %s\nID: %s",
		best.Region, d.Shareability.Score(best), best.Title, draftID))
	return nil
}

// collect polls each source sequentially; a failing source is logged and
// skipped so the rest can still contribute.
func (p *Pipeline) collect(ctx context.Context, sources []ports.CandidateSource) []domain.Candidate {
	since := p.deps.Now().Add(-24 * time.Hour)

	var all []domain.Candidate
	for i, source := range sources {
		if i > 0 {
			p.deps.Sleep(sourcePause)
		}
		found, err := source.Fetch(ctx, since)
		if err != nil {
			p.info("source failed, skipping", "source", source.Name(), "error", err)
			continue
		}
		p.info("source done", "source", source.Name(), "candidates", len(found))
		all = append(all, found...)
	}
	return all
}

func (p *Pipeline) applyFilter(candidates []domain.Candidate, intent domain.FeedbackIntent) []domain.Candidate {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		verdict := p.deps.Filter.Check(candidate, intent.Prohibitions)
		if !verdict.Accepted {
			p.debug("candidate rejected", "rule", verdict.Rule, "detail", verdict.Detail, "title", candidate.Title)
			continue
		}
		kept = append(kept, candidate)
	}
	p.info("relevance filter done", "in", len(candidates), "out", len(kept))
	return kept
}

func (p *Pipeline) produceDraft(ctx context.Context, best domain.Candidate, constraints []domain.NegativeConstraint, intent domain.FeedbackIntent) (string, error) {
	d := p.deps

	examples, err := d.Pending.SelectApproved(ctx, best.Region, styleExampleLimit)
	if err != nil {
		return "", fmt.Errorf("load style examples: %w", err)
	}

	antiExamples, err := d.Feedback.RecentRejected(ctx, antiExampleLimit)
	if err != nil {
		return "", fmt.Errorf("load anti-examples: %w", err)
	}

	draft, err := d.Drafts.Generate(ctx, editorial.PromptInput{
		Candidate:     best,
		StyleExamples: examples,
		AntiExamples:  antiExamples,
		Constraints:   constraints,
		Intent:        intent,
	})
	if err != nil {
		return "", fmt.Errorf("generate draft: %w", err)
	}
	if !draft.Report.Passed {
		p.info("draft kept despite failed rubric", "score", draft.Report.Score, "attempts", draft.Attempt)
	}

	imageURL := ""
	if d.Images != nil {
		imageURL, err = d.Images.FindImage(ctx, best.URL, "venture capital")
		if err != nil {
			p.info("image lookup failed", "error", err)
			imageURL = ""
		}
	}

	// The draft row carries the dedup key, not the raw URL, so URL-less
	// candidates stay findable by Exists/HasOpenDraft on later runs.
	id, err := d.Pending.Insert(ctx, domain.PendingPost{
		Title:        best.Title,
		URL:          best.DedupKey(),
		PostText:     draft.Text,
		ImageURL:     imageURL,
		Region:       best.Region,
		Status:       domain.StatusPending,
		QualityScore: draft.Report.Score,
	})
	if err != nil {
		return "", fmt.Errorf("store draft: %w", err)
	}
	return id, nil
}

func (p *Pipeline) fatal(ctx context.Context, err error) error {
	p.notify(ctx, "Сбой пайплайна: "+err.Error())
	return err
}

func (p *Pipeline) notify(ctx context.Context, text string) {
	if p.deps.Messenger == nil {
		return
	}
	if err := p.deps.Messenger.NotifyOperator(ctx, text); err != nil {
		p.info("operator notification failed", "error", err)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Info(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.deps.Logger != nil {
		p.deps.Logger.Debug(msg, args...)
	}
}
