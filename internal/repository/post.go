package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
	"github.com/sunil-gumatimath/wave-length/internal/validation"
)

// PostRepository defines the interface for post data operations.
// Reads return (nil, nil) when nothing matches.
type PostRepository interface {
	List(ctx context.Context) ([]models.PostWithRelations, error)
	GetByID(ctx context.Context, id uint) (*models.PostWithRelations, error)
	GetBySlug(ctx context.Context, slug string) (*models.PostWithRelations, error)
	Search(ctx context.Context, query string) ([]models.PostWithRelations, error)
	Create(ctx context.Context, in CreatePostInput) (*models.Post, error)
	Update(ctx context.Context, id uint, patch PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// CreatePostInput is the data for a new post. A nil PublishedAt creates a draft.
// Empty Excerpt or CoverImage are stored as NULL.
type CreatePostInput struct {
	Title       string
	Slug        string
	Excerpt     *string
	Content     string
	CoverImage  *string
	AuthorID    uint
	PublishedAt *time.Time
	CategoryIDs []uint
}

// PostPatch is a partial post update; nil fields are left unchanged.
// Unpublish clears the publish time and wins over PublishedAt.
// A non-nil CategoryIDs replaces every category link.
type PostPatch struct {
	Title       *string
	Slug        *string
	Excerpt     *string
	Content     *string
	CoverImage  *string
	AuthorID    *uint
	PublishedAt *time.Time
	Unpublish   bool
	CategoryIDs *[]uint
}

// postRepository implements PostRepository
type postRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewPostRepository creates a new post repository. store may be nil.
func NewPostRepository(db *gorm.DB, store *cache.Store) PostRepository {
	if store == nil {
		store = cache.NewStore(nil, 0)
	}
	return &postRepository{db: db, cache: store, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) List(ctx context.Context) (result []models.PostWithRelations, err error) {
	ctx, finish := observe(ctx, "list", "posts")
	defer func() { finish(err) }()

	fetch := func() (bool, error) {
		var posts []models.Post
		if err := r.db.WithContext(ctx).Order(recencyOrder).Find(&posts).Error; err != nil {
			return false, storageError("list posts", err)
		}
		hydrated, err := loadRelations(ctx, r.db, posts)
		if err != nil {
			return false, err
		}
		result = hydrated
		return true, nil
	}

	gen, ok := r.cache.Generation(ctx)
	if !ok {
		_, err = fetch()
		return result, err
	}
	_, err = r.cache.Aside(ctx, cache.PostListKey(gen), &result, fetch)
	return result, err
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (post *models.PostWithRelations, err error) {
	ctx, finish := observe(ctx, "get_by_id", "posts")
	defer func() { finish(err) }()

	return r.getOne(ctx, func(gen int64) string { return cache.PostIDKey(gen, id) }, "id = ?", id)
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (post *models.PostWithRelations, err error) {
	ctx, finish := observe(ctx, "get_by_slug", "posts")
	defer func() { finish(err) }()

	return r.getOne(ctx, func(gen int64) string { return cache.PostSlugKey(gen, slug) }, "slug = ?", slug)
}

// getOne loads a single post with relations. A post whose author row is gone
// is reported absent.
func (r *postRepository) getOne(ctx context.Context, key func(int64) string, query string, arg interface{}) (*models.PostWithRelations, error) {
	var result models.PostWithRelations
	fetch := func() (bool, error) {
		var posts []models.Post
		if err := r.db.WithContext(ctx).Where(query, arg).Limit(1).Find(&posts).Error; err != nil {
			return false, storageError("get post", err)
		}
		hydrated, err := loadRelations(ctx, r.db, posts)
		if err != nil || len(hydrated) == 0 {
			return false, err
		}
		result = hydrated[0]
		return true, nil
	}

	var found bool
	var err error
	if gen, ok := r.cache.Generation(ctx); ok {
		found, err = r.cache.Aside(ctx, key(gen), &result, fetch)
	} else {
		found, err = fetch()
	}
	if err != nil || !found {
		return nil, err
	}
	return &result, nil
}

// Search matches query as a case-insensitive substring of title, excerpt,
// content, author name and category names, newest first. Case folding is done by
// the database's LOWER: postgres folds per its collation, sqlite folds ASCII only,
// so on sqlite a non-ASCII query matches only text with the same case.
func (r *postRepository) Search(ctx context.Context, query string) (result []models.PostWithRelations, err error) {
	ctx, finish := observe(ctx, "search", "posts")
	defer func() { finish(err) }()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.PostWithRelations{}, nil
	}
	pattern := "%" + escapeLike(q) + "%"

	var posts []models.Post
	err = r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Or(`LOWER(COALESCE(excerpt, '')) LIKE ? ESCAPE '\'`, pattern).
		Or(`LOWER(content) LIKE ? ESCAPE '\'`, pattern).
		Or(`author_id IN (SELECT id FROM users WHERE LOWER(name) LIKE ? ESCAPE '\')`, pattern).
		Or(`id IN (SELECT pc.post_id FROM post_categories pc JOIN categories c ON c.id = pc.category_id WHERE LOWER(c.name) LIKE ? ESCAPE '\')`, pattern).
		Order(recencyOrder).
		Find(&posts).Error
	if err != nil {
		return nil, storageError("search posts", err)
	}
	return loadRelations(ctx, r.db, posts)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *postRepository) Create(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	ctx, finish := observe(ctx, "create", "posts")
	defer func() { finish(err) }()

	if err := validateCreate(in); err != nil {
		return nil, err
	}

	post = &models.Post{
		Title:       in.Title,
		Slug:        in.Slug,
		Excerpt:     nullIfEmpty(in.Excerpt),
		Content:     in.Content,
		CoverImage:  nullIfEmpty(in.CoverImage),
		AuthorID:    in.AuthorID,
		PublishedAt: utcPtr(in.PublishedAt),
	}
	categoryIDs := uniqueIDs(in.CategoryIDs)

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireCategories(tx, categoryIDs); err != nil {
			return err
		}
		if err := tx.Create(post).Error; err != nil {
			return translatePostWrite(err, post.Slug, post.AuthorID)
		}
		return linkCategories(tx, post.ID, categoryIDs)
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return nil, storageError("create post", err)
	}

	r.cache.Invalidate(ctx)
	observability.PostWrites.WithLabelValues("create").Inc()
	r.log.LogWrite(ctx, "create", slog.Uint64("post_id", uint64(post.ID)), slog.String("slug", post.Slug))
	return post, nil
}

func (r *postRepository) Update(ctx context.Context, id uint, patch PostPatch) (post *models.Post, err error) {
	ctx, finish := observe(ctx, "update", "posts")
	defer func() { finish(err) }()

	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Post
		if err := tx.First(&current, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return storageError("load post", err)
		}

		updates := patch.columns()
		updates["updated_at"] = nextUpdatedAt(current.UpdatedAt)

		if err := tx.Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			slug := current.Slug
			if patch.Slug != nil {
				slug = *patch.Slug
			}
			authorID := current.AuthorID
			if patch.AuthorID != nil {
				authorID = *patch.AuthorID
			}
			return translatePostWrite(err, slug, authorID)
		}

		if patch.CategoryIDs != nil {
			categoryIDs := uniqueIDs(*patch.CategoryIDs)
			if err := requireCategories(tx, categoryIDs); err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
				return storageError("unlink categories", err)
			}
			if err := linkCategories(tx, id, categoryIDs); err != nil {
				return err
			}
		}

		var updated models.Post
		if err := tx.First(&updated, id).Error; err != nil {
			return storageError("reload post", err)
		}
		post = &updated
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return nil, storageError("update post", err)
	}
	if post == nil {
		return nil, nil
	}

	r.cache.Invalidate(ctx)
	observability.PostWrites.WithLabelValues("update").Inc()
	r.log.LogWrite(ctx, "update", slog.Uint64("post_id", uint64(id)))
	return post, nil
}

// Delete removes the post, its comments and its category links in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) (deleted bool, err error) {
	ctx, finish := observe(ctx, "delete", "posts")
	defer func() { finish(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return false, storageError("delete post", err)
	}
	if !deleted {
		return false, nil
	}

	r.cache.Invalidate(ctx)
	observability.PostWrites.WithLabelValues("delete").Inc()
	r.log.LogWrite(ctx, "delete", slog.Uint64("post_id", uint64(id)))
	return true, nil
}

func translatePostWrite(err error, slug string, authorID uint) error {
	switch {
	case isUniqueViolation(err):
		return models.NewConflictError("post", "slug", slug)
	case isForeignKeyViolation(err):
		return models.NewNotFoundError("user", authorID)
	default:
		return storageError("write post", err)
	}
}

func validateCreate(in CreatePostInput) error {
	if err := validation.ValidatePostTitle(in.Title); err != nil {
		return err
	}
	if err := validation.ValidatePostSlug(in.Slug); err != nil {
		return err
	}
	if err := validation.ValidatePostContent(in.Content); err != nil {
		return err
	}
	if in.CoverImage != nil {
		if err := validation.ValidateCoverImage(*in.CoverImage); err != nil {
			return err
		}
	}
	if in.AuthorID == 0 {
		return models.NewValidationError("authorId", "author is required")
	}
	return nil
}

func validatePatch(p PostPatch) error {
	if p.Title != nil {
		if err := validation.ValidatePostTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Slug != nil {
		if err := validation.ValidatePostSlug(*p.Slug); err != nil {
			return err
		}
	}
	if p.Content != nil {
		if err := validation.ValidatePostContent(*p.Content); err != nil {
			return err
		}
	}
	if p.CoverImage != nil {
		if err := validation.ValidateCoverImage(*p.CoverImage); err != nil {
			return err
		}
	}
	if p.AuthorID != nil && *p.AuthorID == 0 {
		return models.NewValidationError("authorId", "author is required")
	}
	return nil
}

// columns maps the present fields to column updates. Empty optional text clears to NULL.
func (p PostPatch) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Slug != nil {
		cols["slug"] = *p.Slug
	}
	if p.Excerpt != nil {
		cols["excerpt"] = nullIfEmpty(p.Excerpt)
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.CoverImage != nil {
		cols["cover_image"] = nullIfEmpty(p.CoverImage)
	}
	if p.AuthorID != nil {
		cols["author_id"] = *p.AuthorID
	}
	switch {
	case p.Unpublish:
		cols["published_at"] = nil
	case p.PublishedAt != nil:
		cols["published_at"] = p.PublishedAt.UTC()
	}
	return cols
}

// nextUpdatedAt returns a timestamp strictly after prev at microsecond precision,
// the resolution postgres keeps.
func nextUpdatedAt(prev time.Time) time.Time {
	next := time.Now().UTC().Truncate(time.Microsecond)
	if !next.After(prev) {
		next = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return next
}

func nullIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
