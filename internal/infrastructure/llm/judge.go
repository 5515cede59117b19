package llm

import (
	"context"
	"fmt"
	"strings"

	"VentureScanner/internal/domain"
	"VentureScanner/internal/ports"
)

// DuplicateJudge asks the chat model whether a candidate retells one of the
// recently covered stories. Pluggable behind ports.DuplicateJudge so tests
// can substitute a deterministic implementation.
type DuplicateJudge struct {
	generator ports.Generator
}

var _ ports.DuplicateJudge = (*DuplicateJudge)(nil)

// NewDuplicateJudge wraps a generator into a yes/no judgment call.
func NewDuplicateJudge(generator ports.Generator) *DuplicateJudge {
	return &DuplicateJudge{generator: generator}
}

// IsDuplicate builds a strict yes/no prompt over the recent coverage list.
// Anything other than an explicit "да" is treated as fresh.
func (j *DuplicateJudge) IsDuplicate(ctx context.Context, candidate domain.Candidate, recent []string) (bool, error) {
	if len(recent) == 0 {
		return false, nil
	}

	var b strings.Builder
	b.WriteString("Определи, описывает ли НОВАЯ новость то же самое реальное событие, ")
	b.WriteString("что и одна из УЖЕ ОСВЕЩЁННЫХ (то же объявление, те же цифры, другой источник).\n\n")
	fmt.Fprintf(&b, "НОВАЯ:\n%s\n%s\n\nУЖЕ ОСВЕЩЁННЫЕ:\n", candidate.Title, candidate.Snippet)
	for i, item := range recent {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\nОтветь ровно одним словом: да или нет.")

	answer, err := j.generator.Generate(ctx, b.String())
	if err != nil {
		return false, fmt.Errorf("duplicate judgment: %w", err)
	}

	normalized := strings.ToLower(strings.TrimSpace(answer))
	normalized = strings.Trim(normalized, ".!")
	return normalized == "да" || normalized == "yes", nil
}
