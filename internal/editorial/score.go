package editorial

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"VentureScanner/internal/config"
	"VentureScanner/internal/domain"
)

const (
	minPostLen = 150
	maxPostLen = 450

	lengthPenalty    = 25
	numbersPenalty   = 25
	vaguePenalty     = 15
	geographyPenalty = 20
	emojiPenalty     = 15

	passThreshold = 60
)

var numberWithUnit = regexp.MustCompile(`(?i)(\$|€|₸|£)\s?\d|\d+([.,]\d+)?\s?(%|млн|млрд|тыс|миллион|миллиард|million|billion|m\b|k\b|usd|eur|kzt|тенге)`)

// QualityReport is the deterministic rubric outcome for one generated text.
type QualityReport struct {
	Score  int
	Passed bool
	Issues []string
}

// QualityScorer applies the fixed editorial rubric to generated drafts
// before they are shown to a human.
type QualityScorer struct {
	vaguePhrases []string
	knownNames   []string
}

// NewQualityScorer builds a scorer with the injected vague-phrase and
// known-entity lists.
func NewQualityScorer(vocab config.EditorialConfig) *QualityScorer {
	names := make([]string, 0, len(vocab.Tier1Entities)+len(vocab.LocalEntities))
	names = append(names, vocab.Tier1Entities...)
	names = append(names, vocab.LocalEntities...)
	return &QualityScorer{vaguePhrases: vocab.VaguePhrases, knownNames: names}
}

// Score runs every check; each failure subtracts its fixed penalty from 100.
func (s *QualityScorer) Score(text string, region domain.Region) QualityReport {
	report := QualityReport{Score: 100}
	lowered := strings.ToLower(text)

	if n := utf8.RuneCountInString(text); n < minPostLen || n > maxPostLen {
		report.fail(lengthPenalty, "длина вне диапазона 150-450 символов")
	}

	if !numberWithUnit.MatchString(text) {
		report.fail(numbersPenalty, "нет ни одной цифры с единицей измерения")
	}

	for _, phrase := range s.vaguePhrases {
		if strings.Contains(lowered, strings.ToLower(phrase)) {
			report.fail(vaguePenalty, "расплывчатая формулировка: "+phrase)
			break
		}
	}

	if region != domain.RegionKazakhstan && s.bareAuthority(lowered) {
		report.fail(geographyPenalty, "упомянут 'президент'/'правительство' без страны или компании")
	}

	if containsEmoji(text) {
		report.fail(emojiPenalty, "пост содержит эмодзи")
	}

	report.Passed = report.Score >= passThreshold
	return report
}

func (r *QualityReport) fail(penalty int, issue string) {
	r.Score -= penalty
	r.Issues = append(r.Issues, issue)
}

var bareAuthorities = []string{"президент", "правительство", "минист", "president", "government"}

var countryMentions = []string{
	"казахстан", "узбекистан", "кыргызстан", "таджикистан", "туркменистан",
	"kazakhstan", "uzbekistan", "kyrgyzstan", "tajikistan",
	"сша", "китай", "россия", "германия", "франция", "оаэ", "сингапур",
	"usa", "china", "uae", "singapore", "india", "japan",
}

// bareAuthority reports an authority mention with no concrete country or
// known company name anywhere in the text.
func (s *QualityScorer) bareAuthority(lowered string) bool {
	mentioned := false
	for _, authority := range bareAuthorities {
		if strings.Contains(lowered, authority) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return false
	}

	for _, country := range countryMentions {
		if strings.Contains(lowered, country) {
			return false
		}
	}
	for _, name := range s.knownNames {
		if strings.Contains(lowered, strings.ToLower(name)) {
			return false
		}
	}
	return true
}

func containsEmoji(text string) bool {
	for _, r := range text {
		if r >= 0x1F000 && r <= 0x1FAFF {
			return true
		}
		if r >= 0x2600 && r <= 0x27BF {
			return true
		}
		if unicode.Is(unicode.So, r) {
			return true
		}
	}
	return false
}
