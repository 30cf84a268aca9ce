// Package service holds the use cases behind the HTTP API. Services are
// stateless apart from the repositories and settings injected into them.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/sunil-gumatimath/wave-length/internal/blog"
	"github.com/sunil-gumatimath/wave-length/internal/featureflags"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

// PostView is a hydrated post with its estimated reading time.
type PostView struct {
	models.PostWithRelations
	Summary      string           `json:"summary"`
	ReadingTime  blog.ReadingTime `json:"readingTime"`
	PublishedAgo string           `json:"publishedAgo,omitempty"`
}

type PostService struct {
	posts repository.PostRepository
	flags *featureflags.Set
	now   func() time.Time
}

func NewPostService(posts repository.PostRepository, flags *featureflags.Set) *PostService {
	return &PostService{
		posts: posts,
		flags: flags,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *PostService) view(p models.PostWithRelations) PostView {
	v := PostView{
		PostWithRelations: p,
		Summary:           blog.Summary(&p.Post),
		ReadingTime:       blog.EstimateReadingTime(p.Content),
	}
	if p.PublishedAt != nil {
		v.PublishedAgo = blog.RelativeDate(*p.PublishedAt, s.now())
	}
	return v
}

func (s *PostService) views(posts []models.PostWithRelations) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, s.view(p))
	}
	return views
}

// visible applies the reader-facing draft policy.
func (s *PostService) visible(posts []models.PostWithRelations) []models.PostWithRelations {
	if !s.flags.On(featureflags.HideDrafts) {
		return posts
	}
	return blog.PublishedOnly(posts, s.now())
}

func (s *PostService) hidden(p *models.PostWithRelations) bool {
	return s.flags.On(featureflags.HideDrafts) && !blog.IsPublished(&p.Post, s.now())
}

// ListPosts returns the reader-facing post list, newest first.
func (s *PostService) ListPosts(ctx context.Context) (views []PostView, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "ListPosts")
	defer func() { observability.EndSpan(span, err) }()

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(s.visible(posts)), nil
}

// GetPost returns one post by id, or NOT_FOUND.
func (s *PostService) GetPost(ctx context.Context, id uint) (view *PostView, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "GetPost")
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || s.hidden(post) {
		return nil, models.NewNotFoundError("post", id)
	}
	v := s.view(*post)
	return &v, nil
}

// GetPostBySlug returns one post by its exact slug, or NOT_FOUND.
func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (view *PostView, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "GetPostBySlug")
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post == nil || s.hidden(post) {
		return nil, models.NewNotFoundError("post", slug)
	}
	v := s.view(*post)
	return &v, nil
}

// RelatedPosts returns up to limit posts related to the post with id.
func (s *PostService) RelatedPosts(ctx context.Context, id uint, limit int) (views []PostView, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "RelatedPosts")
	defer func() { observability.EndSpan(span, err) }()

	current, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil || s.hidden(current) {
		return nil, models.NewNotFoundError("post", id)
	}
	all, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(blog.RelatedPosts(*current, s.visible(all), limit)), nil
}

// SearchPosts matches query against titles, content, excerpts, author names
// and category names. The server_search flag moves matching into the database.
func (s *PostService) SearchPosts(ctx context.Context, query string) (views []PostView, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "SearchPosts")
	defer func() { observability.EndSpan(span, err) }()

	if strings.TrimSpace(query) == "" {
		return []PostView{}, nil
	}

	var found []models.PostWithRelations
	if s.flags.On(featureflags.ServerSearch) {
		found, err = s.posts.Search(ctx, query)
	} else {
		var all []models.PostWithRelations
		all, err = s.posts.List(ctx)
		if err == nil {
			found = blog.Search(all, query)
		}
	}
	if err != nil {
		return nil, err
	}
	return s.views(s.visible(found)), nil
}

// AdminListPosts returns every post including drafts.
func (s *PostService) AdminListPosts(ctx context.Context) ([]models.PostWithRelations, error) {
	return s.posts.List(ctx)
}

// CreatePost stores a post. An empty slug is generated from the title.
func (s *PostService) CreatePost(ctx context.Context, in repository.CreatePostInput) (post *models.PostWithRelations, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = blog.GenerateSlug(in.Title)
	}

	created, err := s.posts.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.reload(ctx, created.ID)
}

// UpdatePost applies patch to the post with id, or returns NOT_FOUND.
func (s *PostService) UpdatePost(ctx context.Context, id uint, patch repository.PostPatch) (post *models.PostWithRelations, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "UpdatePost")
	defer func() { observability.EndSpan(span, err) }()

	updated, err := s.posts.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, models.NewNotFoundError("post", id)
	}
	return s.reload(ctx, id)
}

// DeletePost removes the post with id, or returns NOT_FOUND.
func (s *PostService) DeletePost(ctx context.Context, id uint) (err error) {
	ctx, span := observability.TraceServiceCall(ctx, "PostService", "DeletePost")
	defer func() { observability.EndSpan(span, err) }()

	deleted, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return models.NewNotFoundError("post", id)
	}
	return nil
}

// SuggestSlug returns the slug a title would get.
func (s *PostService) SuggestSlug(title string) string {
	return blog.GenerateSlug(title)
}

func (s *PostService) reload(ctx context.Context, id uint) (*models.PostWithRelations, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", id)
	}
	return post, nil
}
