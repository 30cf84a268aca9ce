package blog

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

// SummaryLength caps Summary in runes, before escaping.
const SummaryLength = 160

var summaryPolicy = bluemonday.StrictPolicy()

// Summary is the listing blurb for p: its excerpt when set, otherwise the start
// of its content. Markup is stripped, whitespace collapsed, and the result is
// HTML-escaped so it can be placed in a page as is.
func Summary(p *models.Post) string {
	src := p.Content
	if p.Excerpt != nil && strings.TrimSpace(*p.Excerpt) != "" {
		src = *p.Excerpt
	}

	text := html.UnescapeString(summaryPolicy.Sanitize(src))
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) > SummaryLength {
		runes := []rune(text)[:SummaryLength]
		cut := string(runes)
		if i := strings.LastIndexByte(cut, ' '); i > SummaryLength/2 {
			cut = cut[:i]
		}
		text = strings.TrimRight(cut, " .,;:") + "..."
	}
	return html.EscapeString(text)
}
