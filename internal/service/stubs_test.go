package service

import (
	"context"
	"time"

	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	listFn      func(context.Context) ([]models.PostWithRelations, error)
	getByIDFn   func(context.Context, uint) (*models.PostWithRelations, error)
	getBySlugFn func(context.Context, string) (*models.PostWithRelations, error)
	searchFn    func(context.Context, string) ([]models.PostWithRelations, error)
	createFn    func(context.Context, repository.CreatePostInput) (*models.Post, error)
	updateFn    func(context.Context, uint, repository.PostPatch) (*models.Post, error)
	deleteFn    func(context.Context, uint) (bool, error)
}

func (s *postRepoStub) List(ctx context.Context) ([]models.PostWithRelations, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.PostWithRelations, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) Search(ctx context.Context, query string) ([]models.PostWithRelations, error) {
	return s.searchFn(ctx, query)
}
func (s *postRepoStub) Create(ctx context.Context, in repository.CreatePostInput) (*models.Post, error) {
	return s.createFn(ctx, in)
}
func (s *postRepoStub) Update(ctx context.Context, id uint, patch repository.PostPatch) (*models.Post, error) {
	return s.updateFn(ctx, id, patch)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) (bool, error) {
	return s.deleteFn(ctx, id)
}

// postsRepo serves a fixed set of posts.
func postsRepo(posts ...models.PostWithRelations) *postRepoStub {
	find := func(match func(models.PostWithRelations) bool) *models.PostWithRelations {
		for i := range posts {
			if match(posts[i]) {
				p := posts[i]
				return &p
			}
		}
		return nil
	}
	return &postRepoStub{
		listFn: func(context.Context) ([]models.PostWithRelations, error) { return posts, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.PostWithRelations, error) {
			return find(func(p models.PostWithRelations) bool { return p.ID == id }), nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.PostWithRelations, error) {
			return find(func(p models.PostWithRelations) bool { return p.Slug == slug }), nil
		},
		searchFn: func(context.Context, string) ([]models.PostWithRelations, error) {
			return []models.PostWithRelations{}, nil
		},
		createFn: func(_ context.Context, in repository.CreatePostInput) (*models.Post, error) {
			return &models.Post{ID: 1, Title: in.Title, Slug: in.Slug}, nil
		},
		updateFn: func(context.Context, uint, repository.PostPatch) (*models.Post, error) { return nil, nil },
		deleteFn: func(context.Context, uint) (bool, error) { return false, nil },
	}
}

var published = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func post(id uint, title string, categoryIDs ...uint) models.PostWithRelations {
	p := models.PostWithRelations{
		Post: models.Post{
			ID:          id,
			Title:       title,
			Slug:        "post-" + title,
			Content:     "word word word",
			PublishedAt: &published,
		},
		Author:         models.User{ID: 1, Name: "Ada"},
		PostCategories: []models.PostCategoryRef{},
		Comments:       []models.CommentWithAuthor{},
	}
	for _, cid := range categoryIDs {
		p.PostCategories = append(p.PostCategories, models.PostCategoryRef{Category: models.Category{ID: cid}})
	}
	return p
}

func draft(id uint, title string) models.PostWithRelations {
	p := post(id, title)
	p.PublishedAt = nil
	return p
}

func titles(views []PostView) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, v.Title)
	}
	return out
}
