package feed

import (
	"strings"
)

// categoryKeywords lists bilingual (Russian+English) substrings per
// category. Matching is deliberately substring-based: Russian morphology
// makes stemmed prefixes ("приговор" covers "приговорён") more useful than
// whole-word matches, and categorization runs before any translation so
// both languages must be covered.
//
// Order is the tie-break precedence: when match counts tie, the more
// specific, lower-false-positive category wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{CategoryLegal, []string{
		"суд", "иск", "приговор", "подсудим", "арест", "прокурор", "адвокат",
		"штраф", "уголовн", "следстви", "юрист", "законопроект",
		"court", "lawsuit", "verdict", "trial", "arrest", "prosecutor",
		"attorney", "fine", "criminal case", "indict", "legal",
	}},
	{CategoryConflict, []string{
		"война", "войн", "обстрел", "ракет", "фронт", "наступлени", "оборон",
		"боев", "взрыв", "атак", "вторжени", "мобилизаци",
		"war", "missile", "shelling", "offensive", "frontline", "invasion",
		"airstrike", "troops", "ceasefire", "combat",
	}},
	{CategoryBusiness, []string{
		"бизнес", "компани", "рынок", "акци", "банк", "инвест", "прибыл",
		"экономик", "валют", "нефт", "экспорт",
		"business", "market", "stocks", "bank", "invest", "profit",
		"economy", "inflation", "startup", "merger", "revenue",
	}},
	{CategoryScience, []string{
		"ученые", "учёные", "исследовани", "открыти", "космос", "наука",
		"эксперимент", "климат",
		"scientist", "research", "study finds", "discovery", "space",
		"science", "experiment", "climate", "vaccine",
	}},
	{CategorySociety, []string{
		"обществ", "школ", "образовани", "здравоохранени", "пенси",
		"социальн", "жители", "города",
		"society", "school", "education", "healthcare", "pension",
		"community", "housing", "migration",
	}},
	{CategoryTech, []string{
		"технологи", "искусственный интеллект", "нейросет", "стартап",
		"гаджет", "смартфон", "кибер", "программ", "робот",
		"tech", "artificial intelligence", " ai ", "software", "gadget",
		"smartphone", "cyber", "robot", "chip", "algorithm",
	}},
	{CategoryPolitics, []string{
		"политик", "выборы", "президент", "парламент", "министр", "депутат",
		"правительств", "санкци", "переговор",
		"politic", "election", "president", "parliament", "minister",
		"government", "sanction", "senate", "diplomat",
	}},
}

// Categorize assigns one category from the fixed taxonomy by keyword match
// count, with the categoryKeywords order breaking ties. No match at all
// falls back to CategoryGeneral.
func Categorize(item Item) string {
	text := " " + strings.ToLower(item.Title+" "+item.Summary) + " "

	best := CategoryGeneral
	bestCount := 0
	for _, c := range categoryKeywords {
		count := 0
		for _, kw := range c.keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			best = c.name
			bestCount = count
		}
	}
	return best
}
