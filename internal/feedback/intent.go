package feedback

import (
	"sort"
	"strings"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

// IntentParser classifies free-text editor feedback into prohibitions and
// priority preferences. Ambiguous text defaults to the restrictive reading.
type IntentParser struct {
	priorityMarkers    []string
	prohibitionMarkers []string
	regionMentions     map[string]domain.Region
	stageKeywords      []string
}

// NewIntentParser builds a parser over the injected marker vocabularies.
func NewIntentParser(vocab config.EditorialConfig) *IntentParser {
	return &IntentParser{
		priorityMarkers:    vocab.PriorityMarkers,
		prohibitionMarkers: vocab.ProhibitionMarker,
		regionMentions:     vocab.RegionMentions,
		stageKeywords:      vocab.StageKeywords,
	}
}

// Parse reads the accumulated constraint strings and produces the structured
// intent consumed by the relevance filter, priority resolver, and prompt.
func (p *IntentParser) Parse(constraints []domain.NegativeConstraint) domain.FeedbackIntent {
	intent := domain.FeedbackIntent{}
	seenRegions := map[domain.Region]struct{}{}

	for _, constraint := range constraints {
		text := strings.TrimSpace(constraint.Feedback)
		if text == "" {
			continue
		}
		lowered := strings.ToLower(text)

		if p.hasMarker(lowered, p.priorityMarkers) && !p.hasMarker(lowered, p.prohibitionMarkers) {
			intent.PriorityInstructions = append(intent.PriorityInstructions, text)

			for mention, region := range p.regionMentions {
				if strings.Contains(lowered, mention) {
					if _, seen := seenRegions[region]; !seen {
						seenRegions[region] = struct{}{}
						intent.RegionBoosts = append(intent.RegionBoosts, region)
					}
				}
			}

			if p.hasMarker(lowered, p.stageKeywords) {
				intent.StageBoost = true
			}
			continue
		}

		intent.Prohibitions = append(intent.Prohibitions, text)
	}

	// Map iteration above is unordered; keep the output deterministic.
	sort.Slice(intent.RegionBoosts, func(i, j int) bool {
		return intent.RegionBoosts[i] < intent.RegionBoosts[j]
	})

	return intent
}

func (p *IntentParser) hasMarker(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
