// Package repository provides the data access layer for posts, users, comments and categories.
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sunil-gumatimath/wave-length/internal/blog"
	"github.com/sunil-gumatimath/wave-length/internal/models"
)

// recencyOrder sorts by publish time, falling back to creation time, newest first.
const recencyOrder = "COALESCE(published_at, created_at) DESC, id DESC"

// loadRelations fetches the authors, category links and comments for posts
// with one query per row-set and assembles them. Posts keep their order.
func loadRelations(ctx context.Context, db *gorm.DB, posts []models.Post) ([]models.PostWithRelations, error) {
	if len(posts) == 0 {
		return []models.PostWithRelations{}, nil
	}

	postIDs := make([]uint, 0, len(posts))
	userIDs := make(map[uint]struct{}, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
		userIDs[p.AuthorID] = struct{}{}
	}

	rows := blog.Rows{Posts: posts}
	tx := db.WithContext(ctx)

	if err := tx.Where("post_id IN ?", postIDs).Order("id ASC").Find(&rows.Links).Error; err != nil {
		return nil, storageError("load post categories", err)
	}

	if len(rows.Links) > 0 {
		categoryIDs := make([]uint, 0, len(rows.Links))
		for _, l := range rows.Links {
			categoryIDs = append(categoryIDs, l.CategoryID)
		}
		if err := tx.Where("id IN ?", categoryIDs).Find(&rows.Categories).Error; err != nil {
			return nil, storageError("load categories", err)
		}
	}

	if err := tx.Where("post_id IN ?", postIDs).Order("created_at ASC, id ASC").Find(&rows.Comments).Error; err != nil {
		return nil, storageError("load comments", err)
	}
	for _, c := range rows.Comments {
		userIDs[c.AuthorID] = struct{}{}
	}

	ids := make([]uint, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}
	if err := tx.Where("id IN ?", ids).Find(&rows.Users).Error; err != nil {
		return nil, storageError("load users", err)
	}

	return blog.Assemble(rows), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// requireCategories returns NotFound for the first id with no category row.
func requireCategories(tx *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	var found []uint
	if err := tx.Model(&models.Category{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return storageError("check categories", err)
	}
	present := make(map[uint]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return models.NewNotFoundError("category", id)
		}
	}
	return nil
}

func linkCategories(tx *gorm.DB, postID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.PostCategory, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		links = append(links, models.PostCategory{PostID: postID, CategoryID: cid})
	}
	if err := tx.Create(&links).Error; err != nil {
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("category", categoryIDs[0])
		}
		return storageError("link categories", err)
	}
	return nil
}
