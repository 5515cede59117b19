package curation

import (
	"sort"
	"strings"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

// PriorityResolver merges static region priority with dynamic boosts derived
// from accumulated editor feedback.
type PriorityResolver struct {
	stageKeywords []string
}

// NewPriorityResolver builds a resolver over the injected stage vocabulary.
func NewPriorityResolver(vocab config.EditorialConfig) *PriorityResolver {
	return &PriorityResolver{stageKeywords: vocab.StageKeywords}
}

// Resolve recomputes each candidate's priority under the given intent and
// returns the list sorted ascending. The sort is stable, so ties keep
// source order.
func (r *PriorityResolver) Resolve(candidates []domain.Candidate, intent domain.FeedbackIntent) []domain.Candidate {
	resolved := make([]domain.Candidate, len(candidates))
	copy(resolved, candidates)

	for i := range resolved {
		resolved[i].Priority = r.score(resolved[i], intent)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Priority < resolved[j].Priority
	})

	return resolved
}

func (r *PriorityResolver) score(candidate domain.Candidate, intent domain.FeedbackIntent) int {
	priority := candidate.Priority

	if intent.BoostsRegion(candidate.Region) {
		priority -= 2
	}

	if intent.StageBoost && r.mentionsStage(candidate) {
		priority--
	}

	if intent.HasBoosts() && candidate.Region == domain.RegionWorld {
		priority++
	}

	return priority
}

func (r *PriorityResolver) mentionsStage(candidate domain.Candidate) bool {
	text := candidate.Text()
	for _, keyword := range r.stageKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
