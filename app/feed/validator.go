package feed

import (
	"regexp"
	"strings"
	"unicode"
)

// Validity thresholds. Tuned against real feed noise; adjust here, not at
// call sites.
const (
	MinTitleLength        = 3
	MinTitleWords         = 2
	MaxTitleSymbolRatio   = 0.5
	MaxSummarySymbolRatio = 0.4
)

var (
	// Placeholder shape: an all-caps label followed by nothing but
	// punctuation and spaces, e.g. "HGC: - , , ,".
	placeholderTitlePattern = regexp.MustCompile(`^[A-ZА-ЯЁ0-9][A-ZА-ЯЁ0-9 ]{0,30}:[\s\p{P}]*$`)

	// Repetitive noise: three or more punctuation tokens separated only by
	// whitespace, e.g. ". , . ,".
	repetitiveSymbolPattern = regexp.MustCompile(`(?:[[:punct:]]\s+){3,}`)
)

// IsValid is the structural gate every item must pass before any
// enrichment, scoring or persistence. Pure predicate.
func IsValid(item Item) bool {
	title := strings.TrimSpace(item.Title)
	if len([]rune(title)) < MinTitleLength {
		return false
	}
	if placeholderTitlePattern.MatchString(title) {
		return false
	}
	if len(strings.Fields(title)) < MinTitleWords {
		return false
	}
	if symbolRatio(title) > MaxTitleSymbolRatio {
		return false
	}
	if repetitiveSymbolPattern.MatchString(title) {
		return false
	}

	summary := strings.TrimSpace(item.Summary)
	if summary != "" {
		if symbolRatio(summary) > MaxSummarySymbolRatio {
			return false
		}
		if repetitiveSymbolPattern.MatchString(summary) {
			return false
		}
	}

	return true
}

// symbolRatio is the share of runes that are neither alphanumeric nor
// whitespace.
func symbolRatio(text string) float64 {
	total := 0
	symbols := 0
	for _, r := range text {
		total++
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsSpace(r) {
			symbols++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(symbols) / float64(total)
}
