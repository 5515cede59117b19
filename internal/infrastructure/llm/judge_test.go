package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"VentureScanner/internal/domain"
)

type fakeGenerator struct {
	answer string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.answer, g.err
}

func TestIsDuplicateParsesAnswer(t *testing.T) {
	t.Parallel()

	cases := []struct {
		answer string
		want   bool
	}{
		{"да", true},
		{" Да. ", true},
		{"yes", true},
		{"нет", false},
		{"no", false},
		{"да, это дубликат", false},
	}

	for _, tc := range cases {
		gen := &fakeGenerator{answer: tc.answer}
		judge := NewDuplicateJudge(gen)

		got, err := judge.IsDuplicate(context.Background(), domain.Candidate{Title: "t"}, []string{"covered"})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.answer, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.answer, tc.want, got)
		}
	}
}

func TestIsDuplicatePromptCarriesContext(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{answer: "нет"}
	judge := NewDuplicateJudge(gen)

	_, err := judge.IsDuplicate(context.Background(), domain.Candidate{
		Title:   "Fund X raises $5M",
		Snippet: "seed round",
	}, []string{"Fund X closed a round"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gen.prompt, "Fund X raises $5M") {
		t.Fatal("candidate title missing from prompt")
	}
	if !strings.Contains(gen.prompt, "1. Fund X closed a round") {
		t.Fatal("recent coverage missing from prompt")
	}
}

func TestIsDuplicateEmptyHistorySkipsGenerator(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{answer: "да"}
	judge := NewDuplicateJudge(gen)

	got, err := judge.IsDuplicate(context.Background(), domain.Candidate{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Fatal("expected fresh verdict without history")
	}
	if gen.prompt != "" {
		t.Fatal("generator must not be called without history")
	}
}

func TestIsDuplicateGeneratorError(t *testing.T) {
	t.Parallel()

	judge := NewDuplicateJudge(&fakeGenerator{err: errors.New("down")})

	_, err := judge.IsDuplicate(context.Background(), domain.Candidate{}, []string{"covered"})
	if err == nil {
		t.Fatal("expected an error")
	}
}
