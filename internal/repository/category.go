package repository

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/sunil-gumatimath/wave-length/internal/blog"
	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
)

// MaxCategoryNameLength matches the categories.name column.
const MaxCategoryNameLength = 100

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

type categoryRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewCategoryRepository creates a new category repository. store may be nil.
func NewCategoryRepository(db *gorm.DB, store *cache.Store) CategoryRepository {
	if store == nil {
		store = cache.NewStore(nil, 0)
	}
	return &categoryRepository{db: db, cache: store, log: observability.NewRepoLogger("categories")}
}

func (r *categoryRepository) List(ctx context.Context) (categories []models.Category, err error) {
	ctx, finish := observe(ctx, "list", "categories")
	defer func() { finish(err) }()

	fetch := func() (bool, error) {
		var rows []models.Category
		if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&rows).Error; err != nil {
			return false, storageError("list categories", err)
		}
		if rows == nil {
			rows = []models.Category{}
		}
		categories = rows
		return true, nil
	}

	gen, ok := r.cache.Generation(ctx)
	if !ok {
		_, err = fetch()
		return categories, err
	}
	_, err = r.cache.Aside(ctx, cache.CategoryListKey(gen), &categories, fetch)
	return categories, err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, s string) (category *models.Category, err error) {
	ctx, finish := observe(ctx, "get_by_slug", "categories")
	defer func() { finish(err) }()

	var c models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", s).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("get category", err)
	}
	return &c, nil
}

// Create inserts a category. An empty slug is derived from name.
func (r *categoryRepository) Create(ctx context.Context, name, s string) (category *models.Category, err error) {
	ctx, finish := observe(ctx, "create", "categories")
	defer func() { finish(err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "name is required")
	}
	if len([]rune(name)) > MaxCategoryNameLength {
		return nil, models.NewValidationError("name", "name must be at most 100 characters")
	}
	if s == "" {
		s = slug.Make(name)
	}
	if s == "" || len(s) > MaxCategoryNameLength || !blog.IsValidSlug(s) {
		return nil, models.NewValidationError("slug", "slug may only contain lowercase letters, numbers and hyphens")
	}

	category = &models.Category{Name: name, Slug: s}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, models.NewConflictError("category", "slug", s)
		}
		return nil, storageError("create category", err)
	}

	r.cache.Invalidate(ctx)
	r.log.LogWrite(ctx, "create", slog.Uint64("category_id", uint64(category.ID)), slog.String("slug", s))
	return category, nil
}

// Delete removes a category and its post links. Posts are kept.
func (r *categoryRepository) Delete(ctx context.Context, id uint) (deleted bool, err error) {
	ctx, finish := observe(ctx, "delete", "categories")
	defer func() { finish(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, storageError("delete category", err)
	}
	if deleted {
		r.cache.Invalidate(ctx)
		r.log.LogWrite(ctx, "delete", slog.Uint64("category_id", uint64(id)))
	}
	return deleted, nil
}
