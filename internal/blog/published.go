package blog

import (
	"time"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

// IsPublished reports whether a post is visible to readers at now.
// Drafts and posts scheduled after now are not.
func IsPublished(p *models.Post, now time.Time) bool {
	return !p.IsDraft() && !p.PublishedAt.After(now)
}

// PublishedOnly filters posts down to those visible to readers, keeping order.
func PublishedOnly(posts []models.PostWithRelations, now time.Time) []models.PostWithRelations {
	result := make([]models.PostWithRelations, 0, len(posts))
	for _, p := range posts {
		if IsPublished(&p.Post, now) {
			result = append(result, p)
		}
	}
	return result
}
