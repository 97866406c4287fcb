package feed

// CyrillicRatioThreshold is the Cyrillic share of (Cyrillic+Latin) letters
// above which an item is tagged Russian. Deliberately low: this corpus is
// full of Russian text with embedded English proper nouns, so the bias
// favors Cyrillic.
const CyrillicRatioThreshold = 0.3

// DetectLanguage classifies the item's dominant script across
// title+summary+full text. Defaults to English when neither script is
// present.
func DetectLanguage(item Item) string {
	text := item.Title + " " + item.Summary
	if item.FullText != "" {
		text += " " + item.FullText
	}

	cyrillic := 0
	latin := 0
	for _, r := range text {
		switch {
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}

	if cyrillic+latin == 0 {
		return LanguageEnglish
	}
	if float64(cyrillic)/float64(cyrillic+latin) > CyrillicRatioThreshold {
		return LanguageRussian
	}
	return LanguageEnglish
}
