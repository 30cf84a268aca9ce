package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/middleware"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

// Summary counts what Apply created. Existing rows are skipped, not counted.
type Summary struct {
	Users      int
	Categories int
	Posts      int
	Comments   int
}

// Seeder writes fixtures through the repositories.
type Seeder struct {
	db         *gorm.DB
	users      repository.UserRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	categories repository.CategoryRepository
}

// NewSeeder builds a Seeder over db. store may be nil; passing the live
// cache store makes seeded content visible to a running server at once.
func NewSeeder(db *gorm.DB, store *cache.Store) *Seeder {
	return &Seeder{
		db:         db,
		users:      repository.NewUserRepository(db, store),
		posts:      repository.NewPostRepository(db, store),
		comments:   repository.NewCommentRepository(db, store),
		categories: repository.NewCategoryRepository(db, store),
	}
}

// Apply loads f. Users and categories are matched by email and slug, posts by
// slug; matches are left as they are. Comments are only added to posts that
// Apply created, so applying the same fixture twice adds nothing.
func (s *Seeder) Apply(ctx context.Context, f *Fixture) (Summary, error) {
	var sum Summary

	authors := make(map[string]uint, len(f.Users))
	for _, u := range f.Users {
		existing, err := s.users.GetByEmail(ctx, u.Email)
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		user, err := s.users.FindOrCreateByEmail(ctx, u.Email, u.Name)
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		if existing == nil {
			sum.Users++
			if u.Avatar != "" || u.Bio != "" {
				if _, err := s.users.UpdateProfile(ctx, user.ID, optional(u.Avatar), optional(u.Bio)); err != nil {
					return sum, fmt.Errorf("user %s profile: %w", u.Email, err)
				}
			}
		}
		authors[u.Email] = user.ID
	}

	categories := make(map[string]uint, len(f.Categories))
	for _, c := range f.Categories {
		if c.Slug == "" {
			c.Slug = slug.Make(c.Name)
		}
		category, err := s.categories.Create(ctx, c.Name, c.Slug)
		if models.HasCode(err, models.CodeConflict) {
			category, err = s.categories.GetBySlug(ctx, c.Slug)
		} else if err == nil {
			sum.Categories++
		}
		if err != nil {
			return sum, fmt.Errorf("category %s: %w", c.Name, err)
		}
		if category == nil {
			return sum, fmt.Errorf("category %s: conflicting slug not found", c.Name)
		}
		categories[c.Slug] = category.ID
	}

	created := make(map[string]uint, len(f.Posts))
	for _, p := range f.Posts {
		existing, err := s.posts.GetBySlug(ctx, p.Slug)
		if err != nil {
			return sum, fmt.Errorf("post %s: %w", p.Slug, err)
		}
		if existing != nil {
			continue
		}

		authorID, ok := authors[p.Author]
		if !ok {
			return sum, fmt.Errorf("post %s: author %q is not in the fixture", p.Slug, p.Author)
		}
		categoryIDs := make([]uint, 0, len(p.Categories))
		for _, ref := range p.Categories {
			id, ok := categories[ref]
			if !ok {
				return sum, fmt.Errorf("post %s: category %q is not in the fixture", p.Slug, ref)
			}
			categoryIDs = append(categoryIDs, id)
		}

		post, err := s.posts.Create(ctx, repository.CreatePostInput{
			Title:       p.Title,
			Slug:        p.Slug,
			Excerpt:     optional(p.Excerpt),
			Content:     p.Content,
			CoverImage:  optional(p.CoverImage),
			AuthorID:    authorID,
			PublishedAt: p.PublishedAt,
			CategoryIDs: categoryIDs,
		})
		if err != nil {
			return sum, fmt.Errorf("post %s: %w", p.Slug, err)
		}
		created[p.Slug] = post.ID
		sum.Posts++
	}

	for _, c := range f.Comments {
		postID, ok := created[c.Post]
		if !ok {
			continue
		}
		if _, err := s.comments.Submit(ctx, postID, c.Email, c.Name, c.Content); err != nil {
			return sum, fmt.Errorf("comment on %s by %s: %w", c.Post, c.Email, err)
		}
		sum.Comments++
	}

	middleware.Logger.InfoContext(ctx, "seed applied",
		slog.Int("users", sum.Users),
		slog.Int("categories", sum.Categories),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
	)
	return sum, nil
}

// Clear deletes all blog content, children before parents.
func (s *Seeder) Clear(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.Comment{}, &models.PostCategory{}, &models.Post{}, &models.Category{}, &models.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
