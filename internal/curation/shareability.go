package curation

import (
	"regexp"
	"strings"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

var anyDigit = regexp.MustCompile(`\d`)

var moneyMarkers = []string{"млн", "млрд", "million", "billion", "$", "₸", "€"}

var stageMarkers = []string{"seed", "series", "раунд", "pre-seed"}

var speculativeMarkers = []string{"может", "планирует", "возможно", "plans to", "may "}

// ShareabilityScorer estimates how channel-worthy a raw candidate is on a
// 1..10 scale before any generation happens. Used to pre-rank source output
// and recorded on the publication log.
type ShareabilityScorer struct {
	entities []string
}

// NewShareabilityScorer combines tier-1 and local entity lists from config.
func NewShareabilityScorer(vocab config.EditorialConfig) *ShareabilityScorer {
	entities := make([]string, 0, len(vocab.Tier1Entities)+len(vocab.LocalEntities))
	entities = append(entities, vocab.Tier1Entities...)
	entities = append(entities, vocab.LocalEntities...)
	return &ShareabilityScorer{entities: entities}
}

// Score starts at 5, rewards money figures, known entities, and round
// stages, and penalizes speculation and digit-free text. Clamped to 1..10.
func (s *ShareabilityScorer) Score(candidate domain.Candidate) int {
	return s.ScoreText(candidate.Text())
}

// ScoreText applies the same rubric to arbitrary lower-cased-or-not text,
// e.g. a stored draft at approval time.
func (s *ShareabilityScorer) ScoreText(text string) int {
	text = strings.ToLower(text)
	score := 5

	if containsAny(text, moneyMarkers) {
		score += 2
	}
	if s.mentionsEntity(text) {
		score += 2
	}
	if containsAny(text, stageMarkers) {
		score++
	}
	if containsAny(text, speculativeMarkers) {
		score -= 2
	}
	if !anyDigit.MatchString(text) {
		score -= 3
	}

	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func (s *ShareabilityScorer) mentionsEntity(text string) bool {
	for _, entity := range s.entities {
		if strings.Contains(text, strings.ToLower(entity)) {
			return true
		}
	}
	return false
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
