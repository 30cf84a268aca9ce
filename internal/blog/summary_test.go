package blog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

func TestSummary(t *testing.T) {
	t.Parallel()
	excerpt := "Short <b>excerpt</b>"
	blank := "   "

	tests := []struct {
		name string
		post models.Post
		want string
	}{
		{"Excerpt Preferred", models.Post{Excerpt: &excerpt, Content: "body"}, "Short excerpt"},
		{"Blank Excerpt Falls Back", models.Post{Excerpt: &blank, Content: "The body\n\n  text"}, "The body text"},
		{"Script Dropped", models.Post{Content: "<script>alert(1)</script>Hello"}, "Hello"},
		{"Text Escaped", models.Post{Content: "x < y & z"}, "x &lt; y &amp; z"},
		{"Escaped Input Stays Escaped", models.Post{Content: "&lt;script&gt;x"}, "&lt;script&gt;x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(&tt.post))
		})
	}
}

func TestSummaryTruncatesOnWordBoundary(t *testing.T) {
	t.Parallel()
	p := models.Post{Content: strings.Repeat("word ", 100)}

	got := Summary(&p)
	assert.True(t, strings.HasSuffix(got, "word..."), got)
	assert.LessOrEqual(t, len([]rune(got)), SummaryLength+3)
}
