package editorial

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"VentureScanner/internal/domain"
)

func TestOpeningToken(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Казахстан", OpeningToken(domain.RegionKazakhstan))
	require.Equal(t, "Центральная Азия", OpeningToken(domain.RegionCentralAsia))
	require.Equal(t, "Мир", OpeningToken(domain.RegionWorld))
}

func TestBuildPromptCarriesSourceFacts(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(PromptInput{
		Candidate: domain.Candidate{
			Title:   "Fund X raises $5M",
			URL:     "https://example.com/fund-x",
			Snippet: "Seed round led by a local fund.",
			Region:  domain.RegionKazakhstan,
		},
	})

	require.Contains(t, prompt, "Fund X raises $5M")
	require.Contains(t, prompt, "https://example.com/fund-x")
	require.Contains(t, prompt, "Начни пост ТОЧНО со слова: Казахстан")
	require.NotContains(t, prompt, "ПРИМЕРЫ ОДОБРЕННЫХ ПОСТОВ")
	require.NotContains(t, prompt, "ПРИМЕРЫ ОТКЛОНЁННЫХ ПОСТОВ")
}

func TestBuildPromptSkipsShortStyleExamples(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("Казахстанский фонд закрыл раунд. ", 5)
	prompt := BuildPrompt(PromptInput{
		Candidate: domain.Candidate{Region: domain.RegionWorld},
		StyleExamples: []domain.PendingPost{
			{PostText: "слишком коротко"},
			{PostText: long + "\nhttps://example.com/post"},
		},
	})

	require.Contains(t, prompt, "[Пример 1]")
	require.NotContains(t, prompt, "[Пример 2]")
	require.NotContains(t, prompt, "слишком коротко")
	// Trailing source links never leak into style exemplars.
	require.NotContains(t, prompt, "https://example.com/post")
}

func TestBuildPromptClipsAntiExamples(t *testing.T) {
	t.Parallel()

	huge := strings.Repeat("х", 500)
	prompt := BuildPrompt(PromptInput{
		Candidate: domain.Candidate{Region: domain.RegionWorld},
		AntiExamples: []domain.NegativeConstraint{
			{Feedback: "вода", PostContent: huge},
			{Feedback: "без контента"},
		},
	})

	require.Contains(t, prompt, "[Антипример 1] Причина: вода")
	require.NotContains(t, prompt, "[Антипример 2]")
	require.NotContains(t, prompt, huge)
	require.Contains(t, prompt, strings.Repeat("х", 300))
}

func TestBuildPromptCapsConstraintLines(t *testing.T) {
	t.Parallel()

	constraints := make([]domain.NegativeConstraint, 10)
	for i := range constraints {
		constraints[i] = domain.NegativeConstraint{Feedback: strings.Repeat("z", i+1)}
	}

	prompt := BuildPrompt(PromptInput{
		Candidate:   domain.Candidate{Region: domain.RegionWorld},
		Constraints: constraints,
	})

	require.Contains(t, prompt, "- "+strings.Repeat("z", 8))
	require.NotContains(t, prompt, "- "+strings.Repeat("z", 9))
}

func TestBuildPromptAppendsCorrections(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(PromptInput{
		Candidate:   domain.Candidate{Region: domain.RegionWorld},
		Corrections: []string{"нет ни одной цифры с единицей измерения"},
	})

	require.Contains(t, prompt, "Предыдущая попытка отклонена")
	require.Contains(t, prompt, "нет ни одной цифры с единицей измерения")
}

func TestBuildPromptIncludesEditorPreferences(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt(PromptInput{
		Candidate: domain.Candidate{Region: domain.RegionWorld},
		Intent: domain.FeedbackIntent{
			PriorityInstructions: []string{"Больше про ранние стадии"},
		},
	})

	require.Contains(t, prompt, "Пожелания редактора")
	require.Contains(t, prompt, "Больше про ранние стадии")
}
