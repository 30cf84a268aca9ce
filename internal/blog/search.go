package blog

import (
	"strings"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

// Search returns the posts whose title, excerpt, content, author name or any
// category name contains query, ignoring case. Input order is preserved.
// A blank query matches nothing.
func Search(posts []models.PostWithRelations, query string) []models.PostWithRelations {
	q := strings.ToLower(strings.TrimSpace(query))
	result := make([]models.PostWithRelations, 0)
	if q == "" {
		return result
	}

	for _, p := range posts {
		if matches(&p, q) {
			result = append(result, p)
		}
	}
	return result
}

func matches(p *models.PostWithRelations, q string) bool {
	if contains(p.Title, q) || contains(p.Content, q) || contains(p.Author.Name, q) {
		return true
	}
	if p.Excerpt != nil && contains(*p.Excerpt, q) {
		return true
	}
	for _, pc := range p.PostCategories {
		if contains(pc.Category.Name, q) {
			return true
		}
	}
	return false
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}
