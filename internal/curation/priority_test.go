package curation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"VentureScanner/internal/domain"
)

func TestResolveKeepsStaticOrderWithoutBoosts(t *testing.T) {
	t.Parallel()

	resolver := NewPriorityResolver(testVocab())
	candidates := []domain.Candidate{
		{Title: "world", Region: domain.RegionWorld, Priority: 2},
		{Title: "kz", Region: domain.RegionKazakhstan, Priority: 0},
		{Title: "ca", Region: domain.RegionCentralAsia, Priority: 1},
	}

	sorted := resolver.Resolve(candidates, domain.FeedbackIntent{})

	require.Equal(t, "kz", sorted[0].Title)
	require.Equal(t, "ca", sorted[1].Title)
	require.Equal(t, "world", sorted[2].Title)
}

func TestResolveRegionBoostBeatsStaticPriority(t *testing.T) {
	t.Parallel()

	resolver := NewPriorityResolver(testVocab())
	intent := domain.FeedbackIntent{RegionBoosts: []domain.Region{domain.RegionKazakhstan}}

	candidates := []domain.Candidate{
		{Title: "world", Region: domain.RegionWorld, Priority: 1},
		{Title: "kz", Region: domain.RegionKazakhstan, Priority: 2},
	}

	sorted := resolver.Resolve(candidates, intent)

	// Boosted region drops to 0 while World climbs to 2 under active boosts.
	require.Equal(t, "kz", sorted[0].Title)
	require.Equal(t, 0, sorted[0].Priority)
	require.Equal(t, 2, sorted[1].Priority)
}

func TestResolveStageBoost(t *testing.T) {
	t.Parallel()

	resolver := NewPriorityResolver(testVocab())
	intent := domain.FeedbackIntent{StageBoost: true}

	candidates := []domain.Candidate{
		{Title: "late stage", Region: domain.RegionKazakhstan, Priority: 0},
		{Title: "seed round closed", Region: domain.RegionKazakhstan, Priority: 0},
	}

	sorted := resolver.Resolve(candidates, intent)

	require.Equal(t, "seed round closed", sorted[0].Title)
	require.Equal(t, -1, sorted[0].Priority)
}

func TestResolveStableOnTies(t *testing.T) {
	t.Parallel()

	resolver := NewPriorityResolver(testVocab())
	candidates := []domain.Candidate{
		{Title: "first", Region: domain.RegionKazakhstan, Priority: 0},
		{Title: "second", Region: domain.RegionKazakhstan, Priority: 0},
	}

	sorted := resolver.Resolve(candidates, domain.FeedbackIntent{})

	require.Equal(t, "first", sorted[0].Title)
	require.Equal(t, "second", sorted[1].Title)
}
