package feed

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Sub-score weights. They sum to 1.0 so the combined score stays in 0-100.
const (
	weightKeyword  = 0.30
	weightPattern  = 0.25
	weightQuestion = 0.20
	weightEmotion  = 0.15
	weightLength   = 0.10
)

// Label thresholds on the combined score.
const (
	ThresholdExplosive = 75
	ThresholdHot       = 60
	ThresholdSpicy     = 40
)

const (
	keywordScale    = 10 // per-keyword weights are 1-3, scaled x10
	patternHitValue = 15
	emotionHitValue = 15
)

// controversyKeywords maps provocative substrings (bilingual) to weights
// 1-3. Substring matching against lowercased title+summary.
var controversyKeywords = map[string]int{
	// conflict and crisis
	"war": 3, "войн": 3, "вторжени": 3, "invasion": 3,
	"attack": 3, "атак": 3, "взрыв": 3, "explosion": 3,
	"убийств": 3, "murder": 3,
	"collapse": 3, "крах": 3, "катастроф": 3, "disaster": 3,
	"escalat": 2, "эскалаци": 2, "угроза": 2, "threat": 2,
	"кризис": 2, "crisis": 2, "conflict": 2, "конфликт": 2,
	// scandal and law
	"scandal": 3, "скандал": 3, "коррупци": 3, "corruption": 3,
	"расследовани": 2, "investigation": 2, "арест": 2, "arrest": 2,
	"суд": 1, "court": 1, "запрет": 1, "ban ": 1,
	// politics and sanctions
	"санкци": 2, "sanction": 2, "протест": 2, "protest": 2,
	"путин": 2, "putin": 2, "трамп": 2, "trump": 2,
	"зеленск": 2, "zelensk": 2, "кремл": 2, "kremlin": 2,
	"отставк": 2, "resignation": 2, "импичмент": 3, "impeachment": 3,
	// money trouble
	"дефолт": 2, "default": 2, "обвал": 2, "инфляци": 1, "inflation": 1,
}

// provocativePatterns are matched against the original-case text, +15 per
// hit. ALL-CAPS runs and urgency markers carry the most signal.
var provocativePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\?\s*$`),                            // trailing question
	regexp.MustCompile(`[!?]{2,}`),                          // "?!", "!!!"
	regexp.MustCompile(`\b[A-ZА-ЯЁ]{4,}\b`),                 // ALL-CAPS run
	regexp.MustCompile(`(?i)\bvs\.?\b|против`),              // confrontation framing
	regexp.MustCompile(`(?i)\bbut\b|\bоднако\b|\bвопреки\b`),// contrast conjunction
	regexp.MustCompile(`(?i)breaking|urgent|срочно|экстренно|немедленно`),
	regexp.MustCompile(`(?i)^(why|how|почему|как|зачем)\b`), // question stem
}

// emotionalKeywords are loaded words counted separately from the topical
// keyword list, +15 per hit.
var emotionalKeywords = []string{
	"shock", "шок", "ужас", "horror", "паник", "panic",
	"ярость", "fury", "outrage", "возмущ", "сенсаци", "sensation",
	"драм", "drama", "истери", "слез", "tragedy", "трагеди",
}

// Summary length bands in characters: shorter, punchier summaries read
// as more provocative.
const (
	lengthBandShort  = 100
	lengthBandMedium = 200
	lengthBandLong   = 300
)

// Score computes the controversy estimate for an item. Pure function of
// the item's text: deterministic, no I/O.
func Score(item Item) Controversy {
	plain := item.Title + " " + item.Summary
	lower := strings.ToLower(plain)

	breakdown := Breakdown{
		Keyword:  keywordScore(lower),
		Pattern:  patternScore(plain),
		Question: questionScore(plain),
		Emotion:  emotionScore(lower),
		Length:   lengthScore(item.Summary),
	}

	weighted := weightKeyword*float64(breakdown.Keyword) +
		weightPattern*float64(breakdown.Pattern) +
		weightQuestion*float64(breakdown.Question) +
		weightEmotion*float64(breakdown.Emotion) +
		weightLength*float64(breakdown.Length)

	score := int(math.Round(weighted))
	label, glyph := LabelFor(score)

	return Controversy{
		Score:     score,
		Label:     label,
		Glyph:     glyph,
		Breakdown: breakdown,
	}
}

// LabelFor maps a score to its band label and display glyph.
func LabelFor(score int) (string, string) {
	switch {
	case score >= ThresholdExplosive:
		return LabelExplosive, "💥"
	case score >= ThresholdHot:
		return LabelHot, "🔥"
	case score >= ThresholdSpicy:
		return LabelSpicy, "🌶️"
	default:
		return LabelMild, "💤"
	}
}

func keywordScore(lower string) int {
	sum := 0
	for kw, weight := range controversyKeywords {
		if strings.Contains(lower, kw) {
			sum += weight
		}
	}
	return min(sum*keywordScale, 100)
}

func patternScore(plain string) int {
	score := 0
	for _, p := range provocativePatterns {
		if p.MatchString(plain) {
			score += patternHitValue
		}
	}
	return min(score, 100)
}

func questionScore(plain string) int {
	switch strings.Count(plain, "?") {
	case 0:
		return 30
	case 1:
		return 70
	default:
		return 100
	}
}

func emotionScore(lower string) int {
	score := 0
	for _, kw := range emotionalKeywords {
		if strings.Contains(lower, kw) {
			score += emotionHitValue
		}
	}
	return min(score, 100)
}

func lengthScore(summary string) int {
	switch n := utf8.RuneCountInString(summary); {
	case n < lengthBandShort:
		return 100
	case n < lengthBandMedium:
		return 80
	case n < lengthBandLong:
		return 60
	default:
		return 40
	}
}
