package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunil-gumatimath/wave-length/internal/models"
)

func TestPostRepository_CreateAndGetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()

	author := seedUser(t, db, "Ada", "ada@example.com")
	golang := seedCategory(t, db, "Go", "go")

	in := postInput(author.ID, "Hello World", "hello-world", golang.ID)
	in.Excerpt = strPtr("")
	in.CoverImage = strPtr("https://example.com/cover.png")
	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Nil(t, created.Excerpt, "empty excerpt is stored as NULL")
	assert.True(t, created.IsDraft())

	got, err := repo.GetBySlug(ctx, "hello-world")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Ada", got.Author.Name)
	assert.NotNil(t, got.Comments)
	assert.Empty(t, got.Comments)
	require.Len(t, got.PostCategories, 1)
	assert.Equal(t, "go", got.PostCategories[0].Category.Slug)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "hello-world", byID.Slug)
}

func TestPostRepository_GetAbsent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()

	got, err := repo.GetBySlug(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetByID(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostRepository_GetBySlugIsCaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	_, err := repo.Create(ctx, postInput(author.ID, "Hello World", "hello-world"))
	require.NoError(t, err)

	got, err := repo.GetBySlug(ctx, "Hello-World")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostRepository_CreateValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	tests := []struct {
		name  string
		edit  func(*CreatePostInput)
		field string
	}{
		{"short title", func(in *CreatePostInput) { in.Title = "Hey" }, "title"},
		{"short slug", func(in *CreatePostInput) { in.Slug = "ab" }, "slug"},
		{"bad slug alphabet", func(in *CreatePostInput) { in.Slug = "Hello_World" }, "slug"},
		{"content one short", func(in *CreatePostInput) { in.Content = strings.Repeat("a", 49) }, "content"},
		{"cover not a url", func(in *CreatePostInput) { in.CoverImage = strPtr("cover.png") }, "coverImage"},
		{"missing author", func(in *CreatePostInput) { in.AuthorID = 0 }, "authorId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := postInput(author.ID, "Valid title", "valid-slug")
			tt.edit(&in)
			_, err := repo.Create(ctx, in)
			require.Error(t, err)
			var appErr *models.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, models.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}

	assert.Zero(t, countRows(t, db, &models.Post{}, ""))

	in := postInput(author.ID, "Valid title", "valid-slug")
	in.Content = strings.Repeat("a", 50)
	_, err := repo.Create(ctx, in)
	assert.NoError(t, err)
}

func TestPostRepository_CreateDuplicateSlugConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	first, err := repo.Create(ctx, postInput(author.ID, "First post", "same-slug"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, postInput(author.ID, "Second post", "same-slug"))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict))

	got, err := repo.GetBySlug(ctx, "same-slug")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "First post", got.Title)
}

func TestPostRepository_CreateUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	_, err := repo.Create(ctx, postInput(999, "Orphan post", "orphan"))
	assert.True(t, models.HasCode(err, models.CodeNotFound), "unknown author: %v", err)

	_, err = repo.Create(ctx, postInput(author.ID, "Tagged post", "tagged", 77))
	assert.True(t, models.HasCode(err, models.CodeNotFound), "unknown category: %v", err)

	assert.Zero(t, countRows(t, db, &models.Post{}, ""))
}

func TestPostRepository_ListOrdersByRecency(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	old := postInput(author.ID, "Old published", "old-published")
	published := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	old.PublishedAt = &published
	_, err := repo.Create(ctx, old)
	require.NoError(t, err)
	_, err = repo.Create(ctx, postInput(author.ID, "Fresh draft", "fresh-draft"))
	require.NoError(t, err)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "fresh-draft", posts[0].Slug)
	assert.Equal(t, "old-published", posts[1].Slug)
	for _, p := range posts {
		assert.NotNil(t, p.Comments)
		assert.NotNil(t, p.PostCategories)
	}
}

func TestPostRepository_ListEmpty(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t), nil)

	posts, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestPostRepository_UpdateBumpsUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	post, err := repo.Create(ctx, postInput(author.ID, "Original title", "original"))
	require.NoError(t, err)

	prev := post.UpdatedAt
	for _, title := range []string{"Second title", "Third title", "Fourth title"} {
		updated, err := repo.Update(ctx, post.ID, PostPatch{Title: &title})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, title, updated.Title)
		assert.True(t, updated.UpdatedAt.After(prev), "updatedAt must strictly increase")
		prev = updated.UpdatedAt
	}
}

func TestPostRepository_UpdateFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")
	a := seedCategory(t, db, "Alpha", "alpha")
	b := seedCategory(t, db, "Beta", "beta")

	in := postInput(author.ID, "Original title", "original", a.ID)
	in.Excerpt = strPtr("short summary")
	post, err := repo.Create(ctx, in)
	require.NoError(t, err)

	publish := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	categories := []uint{b.ID}
	_, err = repo.Update(ctx, post.ID, PostPatch{
		Excerpt:     strPtr(""),
		PublishedAt: &publish,
		CategoryIDs: &categories,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.Excerpt)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, publish.Equal(*got.PublishedAt))
	assert.Equal(t, []uint{b.ID}, got.CategoryIDs())
	assert.Equal(t, "Original title", got.Title)

	_, err = repo.Update(ctx, post.ID, PostPatch{Unpublish: true})
	require.NoError(t, err)
	got, err = repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.PublishedAt)
}

func TestPostRepository_UpdateAbsentReturnsNil(t *testing.T) {
	repo := NewPostRepository(setupTestDB(t), nil)

	title := "Another title"
	got, err := repo.Update(context.Background(), 404, PostPatch{Title: &title})
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostRepository_UpdateErrors(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()
	author := seedUser(t, db, "Ada", "ada@example.com")

	_, err := repo.Create(ctx, postInput(author.ID, "First post", "first"))
	require.NoError(t, err)
	second, err := repo.Create(ctx, postInput(author.ID, "Second post", "second"))
	require.NoError(t, err)

	taken := "first"
	_, err = repo.Update(ctx, second.ID, PostPatch{Slug: &taken})
	assert.True(t, models.HasCode(err, models.CodeConflict), "%v", err)

	short := "tiny"
	_, err = repo.Update(ctx, second.ID, PostPatch{Content: &short})
	assert.True(t, models.HasCode(err, models.CodeValidation), "%v", err)

	missing := []uint{55}
	title := "Renamed second"
	_, err = repo.Update(ctx, second.ID, PostPatch{Title: &title, CategoryIDs: &missing})
	assert.True(t, models.HasCode(err, models.CodeNotFound), "%v", err)

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second post", got.Title, "failed update must roll back")
	assert.Equal(t, "second", got.Slug)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db, nil)
	comments := NewCommentRepository(db, nil)
	ctx := context.Background()

	author := seedUser(t, db, "Ada", "ada@example.com")
	reader := seedUser(t, db, "Grace", "grace@example.com")
	a := seedCategory(t, db, "Alpha", "alpha")
	b := seedCategory(t, db, "Beta", "beta")

	post, err := posts.Create(ctx, postInput(author.ID, "Doomed post", "doomed", a.ID, b.ID))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := comments.Add(ctx, post.ID, reader.ID, "A perfectly reasonable comment")
		require.NoError(t, err)
	}

	deleted, err := posts.Delete(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := posts.GetByID(ctx, post.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, countRows(t, db, &models.Comment{}, "post_id = ?", post.ID))
	assert.Zero(t, countRows(t, db, &models.PostCategory{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 2, countRows(t, db, &models.User{}, ""))
	assert.EqualValues(t, 2, countRows(t, db, &models.Category{}, ""))

	deleted, err = posts.Delete(ctx, post.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostRepository_Search(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db, nil)
	ctx := context.Background()

	ada := seedUser(t, db, "Ada Lovelace", "ada@example.com")
	grace := seedUser(t, db, "Grace Hopper", "grace@example.com")
	travel := seedCategory(t, db, "Travel Café", "travel")

	_, err := repo.Create(ctx, postInput(ada.ID, "Engines of analysis", "engines"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, postInput(grace.ID, "Notes from Lisbon", "lisbon", travel.ID))
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{"ENGINES", []string{"engines"}},
		{"hopper", []string{"lisbon"}},
		{"travel", []string{"lisbon"}},
		{"café", []string{"lisbon"}},
		{"comfortably", []string{"lisbon", "engines"}},
		{"   ", []string{}},
		{"100%", []string{}},
		{"no-such-text", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			slugs := make([]string, 0, len(got))
			for _, p := range got {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}
}

func TestPostRepository_ListStorageError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts"`)).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeStorage))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CreateMapsPgUniqueViolation(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_posts_slug"})
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), postInput(1, "Hello World", "hello-world"))
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeConflict), "%v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
