package editorial

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

const maxAttempts = 3

// Draft is a generated post together with its rubric outcome.
type Draft struct {
	Text    string
	Report  QualityReport
	Attempt int
}

// DraftGenerator turns one surviving candidate into publishable text,
// retrying with corrective instructions when the rubric rejects an attempt.
type DraftGenerator struct {
	generator ports.Generator
	scorer    *QualityScorer
	logger    *slog.Logger
}

// NewDraftGenerator wires the text generator and the quality scorer.
func NewDraftGenerator(generator ports.Generator, scorer *QualityScorer, logger *slog.Logger) *DraftGenerator {
	return &DraftGenerator{generator: generator, scorer: scorer, logger: logger}
}

// Generate produces the draft for a candidate. If every attempt fails the
// rubric, the best-scoring attempt is kept with its sub-threshold score
// recorded instead of blocking the run.
func (g *DraftGenerator) Generate(ctx context.Context, input PromptInput) (Draft, error) {
	var best Draft

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		prompt := BuildPrompt(input)

		raw, err := g.generator.Generate(ctx, prompt)
		if err != nil {
			return Draft{}, fmt.Errorf("generate attempt %d: %w", attempt, err)
		}

		text := g.normalize(raw, input.Candidate)
		report := g.scorer.Score(text, input.Candidate.Region)
		draft := Draft{Text: g.withSourceLink(text, input.Candidate), Report: report, Attempt: attempt}

		if report.Passed {
			return draft, nil
		}

		g.debug("draft failed rubric", "attempt", attempt, "score", report.Score, "issues", strings.Join(report.Issues, "; "))
		if best.Text == "" || report.Score > best.Report.Score {
			best = draft
		}
		input.Corrections = report.Issues
	}

	return best, nil
}

// normalize strips markup the model tends to emit and enforces the opening
// token before scoring.
func (g *DraftGenerator) normalize(raw string, candidate domain.Candidate) string {
	text := strings.TrimSpace(raw)
	for _, markup := range []string{"**", "__", "*", "_", "#"} {
		text = strings.ReplaceAll(text, markup, "")
	}
	if idx := strings.Index(text, "---"); idx >= 0 {
		text = strings.TrimSpace(text[:idx])
	}

	token := OpeningToken(candidate.Region)
	if !strings.HasPrefix(text, token) {
		text = token + "\n\n" + text
	}
	return text
}

func (g *DraftGenerator) withSourceLink(text string, candidate domain.Candidate) string {
	if candidate.URL == "" {
		return text
	}
	return text + "\n\n" + candidate.URL
}

func (g *DraftGenerator) debug(msg string, args ...any) {
	if g.logger != nil {
		g.logger.Debug(msg, args...)
	}
}
