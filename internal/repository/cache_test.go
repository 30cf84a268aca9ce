package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/models"
)

func setupStore(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStore(client, time.Minute), mr
}

func TestPostRepository_ReadsAreCachedUntilWrite(t *testing.T) {
	db := setupTestDB(t)
	store, mr := setupStore(t)
	repo := NewPostRepository(db, store)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	_, err := repo.Create(ctx, postInput(author.ID, "First post", "first"))
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, mr.Exists(cache.PostListKey(1)))

	// Rows written behind the repository's back stay invisible until invalidation.
	require.NoError(t, db.Create(&models.Post{Title: "Sneaky", Slug: "sneaky", Content: validContent, AuthorID: author.ID}).Error)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.Create(ctx, postInput(author.ID, "Second post", "second"))
	require.NoError(t, err)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestPostRepository_CachedDetailSeesNewComments(t *testing.T) {
	db := setupTestDB(t)
	store, _ := setupStore(t)
	posts := NewPostRepository(db, store)
	comments := NewCommentRepository(db, store)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	post, err := posts.Create(ctx, postInput(author.ID, "First post", "first"))
	require.NoError(t, err)

	got, err := posts.GetBySlug(ctx, "first")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Comments)
	assert.NotNil(t, got.Comments)

	_, err = comments.Submit(ctx, post.ID, "reader@example.com", "Reader", "Lovely write-up, thanks")
	require.NoError(t, err)

	got, err = posts.GetBySlug(ctx, "first")
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "Reader", got.Comments[0].Author.Name)
}

func TestPostRepository_MissesAreNotCached(t *testing.T) {
	db := setupTestDB(t)
	store, mr := setupStore(t)
	repo := NewPostRepository(db, store)
	ctx := context.Background()

	got, err := repo.GetBySlug(ctx, "later")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(cache.PostSlugKey(0, "later")))
}

func TestPostRepository_CacheOutageFallsThrough(t *testing.T) {
	db := setupTestDB(t)
	store, mr := setupStore(t)
	repo := NewPostRepository(db, store)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	mr.Close()

	_, err := repo.Create(ctx, postInput(author.ID, "First post", "first"))
	require.NoError(t, err)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
