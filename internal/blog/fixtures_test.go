package blog

import (
	"time"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func post(id uint, title string, categoryIDs ...uint) models.PostWithRelations {
	pcs := make([]models.PostCategoryRef, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		pcs = append(pcs, models.PostCategoryRef{Category: models.Category{ID: cid, Name: "cat", Slug: "cat"}})
	}
	return models.PostWithRelations{
		Post: models.Post{
			ID:        id,
			Title:     title,
			Slug:      GenerateSlug(title),
			Content:   "plain body",
			AuthorID:  1,
			CreatedAt: baseTime,
			UpdatedAt: baseTime,
		},
		Author:         models.User{ID: 1, Name: "Ada"},
		PostCategories: pcs,
		Comments:       []models.CommentWithAuthor{},
	}
}

func ids(posts []models.PostWithRelations) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
