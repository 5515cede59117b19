package curation

import (
	"strings"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

// FilterRule names the first rule that rejected a candidate.
type FilterRule string

const (
	RuleBlockedTopic  FilterRule = "blocked_topic"
	RuleBlockedDomain FilterRule = "blocked_domain"
	RuleSkipTitle     FilterRule = "skip_title"
	RuleProhibited    FilterRule = "prohibited"
	RuleNoKeyword     FilterRule = "no_keyword"
)

// Verdict is the filter outcome with the triggering rule for diagnostics.
type Verdict struct {
	Accepted bool
	Rule     FilterRule
	Detail   string
}

// RelevanceFilter classifies candidates against fixed block-lists, learned
// prohibitions, and the positive keyword list. Pure over its inputs.
type RelevanceFilter struct {
	vocab config.EditorialConfig
}

// NewRelevanceFilter builds a filter over the injected vocabulary.
func NewRelevanceFilter(vocab config.EditorialConfig) *RelevanceFilter {
	return &RelevanceFilter{vocab: vocab}
}

// Check applies the rules in order; the first match wins.
func (f *RelevanceFilter) Check(candidate domain.Candidate, prohibitions []string) Verdict {
	text := candidate.Text()

	for _, topic := range f.vocab.BlockedTopics {
		if strings.Contains(text, strings.ToLower(topic)) {
			return Verdict{Rule: RuleBlockedTopic, Detail: topic}
		}
	}

	loweredURL := strings.ToLower(candidate.URL)
	for _, blocked := range f.vocab.BlockedDomains {
		if blocked != "" && strings.Contains(loweredURL, strings.ToLower(blocked)) {
			return Verdict{Rule: RuleBlockedDomain, Detail: blocked}
		}
	}

	loweredTitle := strings.ToLower(candidate.Title)
	for _, pattern := range f.vocab.SkipTitlePatterns {
		if strings.Contains(loweredTitle, strings.ToLower(pattern)) {
			return Verdict{Rule: RuleSkipTitle, Detail: pattern}
		}
	}

	for _, prohibition := range prohibitions {
		lowered := strings.ToLower(strings.TrimSpace(prohibition))
		if lowered != "" && strings.Contains(text, lowered) {
			return Verdict{Rule: RuleProhibited, Detail: prohibition}
		}
	}

	for _, keyword := range f.vocab.Keywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return Verdict{Accepted: true}
		}
	}

	return Verdict{Rule: RuleNoKeyword}
}
