package editorial

import (
	"fmt"
	"strings"

	"VentureScanner/internal/domain"
)

const (
	maxStyleExamples   = 3
	maxAntiExamples    = 4
	maxConstraintLines = 8
	minExampleLen      = 80
	antiExampleClip    = 300
)

// OpeningToken returns the fixed word a draft for the region must start with.
func OpeningToken(region domain.Region) string {
	switch region {
	case domain.RegionKazakhstan:
		return "Казахстан"
	case domain.RegionCentralAsia:
		return "Центральная Азия"
	default:
		return "Мир"
	}
}

func regionHint(region domain.Region) string {
	switch region {
	case domain.RegionKazakhstan:
		return "Казахстан"
	case domain.RegionCentralAsia:
		return "укажи конкретную страну (Казахстан/Узбекистан/Кыргызстан и т.д.)"
	default:
		return "укажи конкретную страну или компанию"
	}
}

// PromptInput collects everything that shapes one generation attempt.
type PromptInput struct {
	Candidate     domain.Candidate
	StyleExamples []domain.PendingPost
	AntiExamples  []domain.NegativeConstraint
	Constraints   []domain.NegativeConstraint
	Intent        domain.FeedbackIntent
	Corrections   []string
}

// BuildPrompt renders the constrained generation prompt: source facts,
// approved posts as style-only exemplars, rejected posts as anti-examples,
// accumulated constraints, and editor preferences verbatim.
func BuildPrompt(input PromptInput) string {
	var b strings.Builder

	b.WriteString("Ты редактор Telegram-канала о венчурном капитале в Центральной Азии.\n")
	b.WriteString("Напиши новостной пост на РУССКОМ языке строго по этой статье.\n")

	writeStyleExamples(&b, input.StyleExamples)
	writeAntiExamples(&b, input.AntiExamples)

	b.WriteString("\nИСТОЧНИК (используй ТОЛЬКО эти факты, не добавляй ничего от себя):\n")
	fmt.Fprintf(&b, "Заголовок: %s\n", input.Candidate.Title)
	fmt.Fprintf(&b, "Содержание: %s\n", input.Candidate.Snippet)
	fmt.Fprintf(&b, "Ссылка: %s\n", input.Candidate.URL)

	writeConstraints(&b, input.Constraints)
	writeIntent(&b, input.Intent)

	fmt.Fprintf(&b, "\nВАЖНО про страну: %s. ", regionHint(input.Candidate.Region))
	b.WriteString("Никогда не пиши 'президент', 'правительство' без названия страны.\n")
	fmt.Fprintf(&b, "Начни пост ТОЧНО со слова: %s\n", OpeningToken(input.Candidate.Region))
	b.WriteString("Затем пустая строка, затем сам пост.\n\n")
	b.WriteString("Структура — ровно 2 предложения:\n")
	b.WriteString("1. Что произошло — кто, что, сколько (конкретные цифры из источника).\n")
	b.WriteString("2. Конкретный вывод или последствие для рынка — только из источника.\n\n")
	b.WriteString("Правила: нейтральный деловой язык, без эмодзи, без хэштегов, ")
	b.WriteString("ТОЛЬКО факты из источника, длина 200-350 символов.\n")

	if len(input.Corrections) > 0 {
		b.WriteString("\nПредыдущая попытка отклонена проверкой качества. Исправь:\n")
		for _, correction := range input.Corrections {
			fmt.Fprintf(&b, "  - %s\n", correction)
		}
	}

	return b.String()
}

func writeStyleExamples(b *strings.Builder, examples []domain.PendingPost) {
	written := 0
	for _, example := range examples {
		clean := stripTrailingLink(example.PostText)
		if len([]rune(clean)) < minExampleLen {
			continue
		}
		if written == 0 {
			b.WriteString("\nПРИМЕРЫ ОДОБРЕННЫХ ПОСТОВ — учись СТИЛЮ (длина, тон, структура):\n")
			b.WriteString("Факты для нового поста бери ТОЛЬКО из раздела ИСТОЧНИК ниже.\n")
		}
		written++
		fmt.Fprintf(b, "\n[Пример %d]\n%s\n", written, clean)
		if written == maxStyleExamples {
			break
		}
	}
	if written > 0 {
		b.WriteString("\n")
	}
}

func writeAntiExamples(b *strings.Builder, rejected []domain.NegativeConstraint) {
	written := 0
	for _, anti := range rejected {
		if anti.PostContent == "" {
			continue
		}
		if written == 0 {
			b.WriteString("\nПРИМЕРЫ ОТКЛОНЁННЫХ ПОСТОВ — НИКОГДА не пиши так:\n")
		}
		written++
		content := anti.PostContent
		if len([]rune(content)) > antiExampleClip {
			content = string([]rune(content)[:antiExampleClip])
		}
		fmt.Fprintf(b, "\n[Антипример %d] Причина: %s\nКонтент: %s\n", written, anti.Feedback, content)
		if written == maxAntiExamples {
			break
		}
	}
	if written > 0 {
		b.WriteString("\nЭти посты отклонил редактор. Не повторяй их стиль и причины.\n")
	}
}

func writeConstraints(b *strings.Builder, constraints []domain.NegativeConstraint) {
	if len(constraints) == 0 {
		return
	}
	b.WriteString("\nПредыдущие причины отклонений (не повторяй подобный контент):\n")
	for i, constraint := range constraints {
		if i == maxConstraintLines {
			break
		}
		fmt.Fprintf(b, "  - %s\n", constraint.Feedback)
	}
}

func writeIntent(b *strings.Builder, intent domain.FeedbackIntent) {
	if len(intent.PriorityInstructions) == 0 {
		return
	}
	b.WriteString("\nПожелания редактора:\n")
	for _, instruction := range intent.PriorityInstructions {
		fmt.Fprintf(b, "  - %s\n", instruction)
	}
}

func stripTrailingLink(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "http") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
