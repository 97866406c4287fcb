package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// StripHTML converts an HTML fragment to plain text. goquery handles the
// usual malformed feed markup; the regex pass is the fallback for input
// that is not parseable at all.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	if !strings.ContainsRune(fragment, '<') && !strings.ContainsRune(fragment, '&') {
		return collapseWhitespace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		stripped := tagPattern.ReplaceAllString(fragment, " ")
		return collapseWhitespace(html.UnescapeString(stripped))
	}

	doc.Find("script, style").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
