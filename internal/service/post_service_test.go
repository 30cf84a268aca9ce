package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunil-gumatimath/wave-length/internal/featureflags"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

func TestPostService_ListPostsAddsReadingTime(t *testing.T) {
	t.Parallel()

	long := post(1, "long")
	long.Content = strings.Repeat("word ", 401)
	svc := NewPostService(postsRepo(long, post(2, "short")), nil)

	views, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 3, views[0].ReadingTime.Minutes)
	assert.Equal(t, "1 min read", views[1].ReadingTime.Text)
	assert.Equal(t, "word word word", views[1].Summary)
}

func TestPostService_PublishedAgo(t *testing.T) {
	t.Parallel()
	svc := NewPostService(postsRepo(post(1, "live"), draft(2, "wip")), nil)
	svc.now = func() time.Time { return published.Add(3 * 24 * time.Hour) }

	views, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "3 days ago", views[0].PublishedAgo)
	assert.Empty(t, views[1].PublishedAgo)
}

func TestPostService_DraftPolicy(t *testing.T) {
	t.Parallel()
	repo := postsRepo(post(1, "live"), draft(2, "wip"))
	ctx := context.Background()

	t.Run("drafts listed by default", func(t *testing.T) {
		t.Parallel()
		views, err := NewPostService(repo, nil).ListPosts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"live", "wip"}, titles(views))
	})

	t.Run("hide_drafts filters list and detail", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(repo, featureflags.Parse("hide_drafts=on"))
		views, err := svc.ListPosts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"live"}, titles(views))

		_, err = svc.GetPost(ctx, 2)
		assert.True(t, models.HasCode(err, models.CodeNotFound))

		admin, err := svc.AdminListPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, admin, 2)
	})
}

func TestPostService_GetPost(t *testing.T) {
	t.Parallel()
	svc := NewPostService(postsRepo(post(7, "seven")), nil)
	ctx := context.Background()

	view, err := svc.GetPost(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "seven", view.Title)

	view, err = svc.GetPostBySlug(ctx, "post-seven")
	require.NoError(t, err)
	assert.Equal(t, uint(7), view.ID)

	_, err = svc.GetPost(ctx, 8)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = svc.GetPostBySlug(ctx, "nope")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostService_RelatedPosts(t *testing.T) {
	t.Parallel()
	svc := NewPostService(postsRepo(
		post(1, "current", 10),
		post(2, "unrelated", 20),
		post(3, "sibling", 10),
		post(4, "other"),
	), nil)

	views, err := svc.RelatedPosts(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"sibling", "unrelated"}, titles(views))

	_, err = svc.RelatedPosts(context.Background(), 99, 2)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostService_SearchPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("in memory by default", func(t *testing.T) {
		t.Parallel()
		repo := postsRepo(post(1, "Golang tips"), post(2, "Cooking"))
		repo.searchFn = func(context.Context, string) ([]models.PostWithRelations, error) {
			t.Fatal("server search must not run when the flag is off")
			return nil, nil
		}
		views, err := NewPostService(repo, nil).SearchPosts(ctx, "golang")
		require.NoError(t, err)
		assert.Equal(t, []string{"Golang tips"}, titles(views))
	})

	t.Run("server_search delegates to repository", func(t *testing.T) {
		t.Parallel()
		repo := postsRepo()
		var got string
		repo.searchFn = func(_ context.Context, q string) ([]models.PostWithRelations, error) {
			got = q
			return []models.PostWithRelations{post(5, "From DB")}, nil
		}
		views, err := NewPostService(repo, featureflags.Parse("server_search=on")).SearchPosts(ctx, "db")
		require.NoError(t, err)
		assert.Equal(t, "db", got)
		assert.Equal(t, []string{"From DB"}, titles(views))
	})

	t.Run("blank query", func(t *testing.T) {
		t.Parallel()
		views, err := NewPostService(postsRepo(post(1, "x")), nil).SearchPosts(ctx, "  ")
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})
}

func TestPostService_CreatePostGeneratesSlug(t *testing.T) {
	t.Parallel()
	repo := postsRepo(post(1, "x"))
	var captured repository.CreatePostInput
	repo.createFn = func(_ context.Context, in repository.CreatePostInput) (*models.Post, error) {
		captured = in
		return &models.Post{ID: 1}, nil
	}

	created, err := NewPostService(repo, nil).CreatePost(context.Background(), repository.CreatePostInput{
		Title: "  Hello, World! Go 1.22  ",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "Hello, World! Go 1.22", captured.Title)
	assert.Equal(t, "hello-world-go-122", captured.Slug)
}

func TestPostService_CreatePostPropagatesErrors(t *testing.T) {
	t.Parallel()
	repo := postsRepo()
	conflict := models.NewConflictError("post", "slug", "taken")
	repo.createFn = func(context.Context, repository.CreatePostInput) (*models.Post, error) {
		return nil, conflict
	}

	_, err := NewPostService(repo, nil).CreatePost(context.Background(), repository.CreatePostInput{Title: "Taken", Slug: "taken"})
	assert.ErrorIs(t, err, conflict)
}

func TestPostService_UpdateAndDeleteMissing(t *testing.T) {
	t.Parallel()
	svc := NewPostService(postsRepo(), nil)
	ctx := context.Background()

	_, err := svc.UpdatePost(ctx, 3, repository.PostPatch{})
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	err = svc.DeletePost(ctx, 3)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	repo := postsRepo()
	repo.deleteFn = func(_ context.Context, id uint) (bool, error) { return id == 4, nil }
	assert.NoError(t, NewPostService(repo, nil).DeletePost(context.Background(), 4))

	storage := models.NewStorageError("delete post", errors.New("disk full"))
	repo.deleteFn = func(context.Context, uint) (bool, error) { return false, storage }
	assert.ErrorIs(t, NewPostService(repo, nil).DeletePost(context.Background(), 4), storage)
}
