package feedback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

func testVocab() config.EditorialConfig {
	return config.EditorialConfig{
		PriorityMarkers:   []string{"больше", "фокус на", "more", "focus on"},
		ProhibitionMarker: []string{"не ", "без ", "don't", "avoid"},
		StageKeywords:     []string{"seed", "сид"},
		RegionMentions: map[string]domain.Region{
			"казахстан":  domain.RegionKazakhstan,
			"kazakhstan": domain.RegionKazakhstan,
			"узбекистан": domain.RegionCentralAsia,
			"глобальн":   domain.RegionWorld,
		},
	}
}

func constraints(texts ...string) []domain.NegativeConstraint {
	out := make([]domain.NegativeConstraint, 0, len(texts))
	for _, text := range texts {
		out = append(out, domain.NegativeConstraint{Feedback: text})
	}
	return out
}

func TestParsePriorityInstructionWithRegion(t *testing.T) {
	t.Parallel()

	parser := NewIntentParser(testVocab())
	intent := parser.Parse(constraints("Больше новостей про Казахстан"))

	require.Empty(t, intent.Prohibitions)
	require.Equal(t, []domain.Region{domain.RegionKazakhstan}, intent.RegionBoosts)
	require.Equal(t, []string{"Больше новостей про Казахстан"}, intent.PriorityInstructions)
	require.False(t, intent.StageBoost)
}

func TestParseStageBoost(t *testing.T) {
	t.Parallel()

	parser := NewIntentParser(testVocab())
	intent := parser.Parse(constraints("Фокус на seed раунды"))

	require.True(t, intent.StageBoost)
	require.Len(t, intent.PriorityInstructions, 1)
}

func TestParseAmbiguousDefaultsToProhibition(t *testing.T) {
	t.Parallel()

	parser := NewIntentParser(testVocab())
	intent := parser.Parse(constraints("Больше не публикуй такие посты"))

	// Both marker families present; the restrictive reading wins.
	require.Equal(t, []string{"Больше не публикуй такие посты"}, intent.Prohibitions)
	require.Empty(t, intent.PriorityInstructions)
}

func TestParseMarkerlessIsProhibition(t *testing.T) {
	t.Parallel()

	parser := NewIntentParser(testVocab())
	intent := parser.Parse(constraints("old news, not relevant"))

	require.Equal(t, []string{"old news, not relevant"}, intent.Prohibitions)
}

func TestParseSkipsEmptyAndDedupesRegions(t *testing.T) {
	t.Parallel()

	parser := NewIntentParser(testVocab())
	intent := parser.Parse(constraints(
		"  ",
		"Больше про Казахстан",
		"Больше про Казахстан и Узбекистан",
	))

	require.Equal(t, []domain.Region{domain.RegionCentralAsia, domain.RegionKazakhstan}, intent.RegionBoosts)
	require.Len(t, intent.PriorityInstructions, 2)
}
