package repository

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
	"github.com/sunil-gumatimath/wave-length/internal/validation"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindOrCreateByEmail(ctx context.Context, email, name string) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, avatar, bio *string) (*models.User, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

var errUserHasPosts = &models.AppError{
	Code:    models.CodeConflict,
	Message: "user still authors posts",
	Field:   "posts",
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewUserRepository creates a new user repository. store may be nil.
func NewUserRepository(db *gorm.DB, store *cache.Store) UserRepository {
	if store == nil {
		store = cache.NewStore(nil, 0)
	}
	return &userRepository{db: db, cache: store, log: observability.NewRepoLogger("users")}
}

// FindOrCreateByEmail returns the user registered under email, creating it with
// name when none exists. An existing user's name is never changed.
func (r *userRepository) FindOrCreateByEmail(ctx context.Context, email, name string) (user *models.User, err error) {
	ctx, finish := observe(ctx, "find_or_create", "users")
	defer func() { finish(err) }()

	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	var existing models.User
	if err := db.Where("email = ?", normalized).Limit(1).Find(&existing).Error; err != nil {
		return nil, storageError("load user", err)
	}
	if existing.ID != 0 {
		return &existing, nil
	}

	// The name only matters for a new row.
	trimmed, err := validation.ValidateCommenterName(name)
	if err != nil {
		return nil, err
	}
	user, err = findOrCreateUser(db, normalized, trimmed)
	if err != nil {
		return nil, storageError("find or create user", err)
	}
	return user, nil
}

// findOrCreateUser inserts with ON CONFLICT (email) DO NOTHING and then reads the
// row back, so concurrent callers with the same email converge on one user.
// email and name must already be validated.
func findOrCreateUser(tx *gorm.DB, email, name string) (*models.User, error) {
	candidate := models.User{Name: name, Email: email}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return nil, storageError("insert user", err)
	}

	var user models.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, storageError("load user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, finish := observe(ctx, "get_by_id", "users")
	defer func() { finish(err) }()

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("get user", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, finish := observe(ctx, "get_by_email", "users")
	defer func() { finish(err) }()

	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("get user", err)
	}
	return &u, nil
}

// UpdateProfile sets avatar and bio. A nil argument leaves the column alone and
// an empty string clears it.
func (r *userRepository) UpdateProfile(ctx context.Context, id uint, avatar, bio *string) (user *models.User, err error) {
	ctx, finish := observe(ctx, "update_profile", "users")
	defer func() { finish(err) }()

	if avatar != nil && *avatar != "" {
		if err := validation.ValidateCoverImage(*avatar); err != nil {
			return nil, models.NewValidationError("avatar", "avatar must be an http(s) URL")
		}
	}

	updates := map[string]interface{}{}
	if avatar != nil {
		updates["avatar"] = nullIfEmpty(avatar)
	}
	if bio != nil {
		updates["bio"] = nullIfEmpty(bio)
	}

	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, storageError("update user", res.Error)
		}
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storageError("reload user", err)
	}
	if len(updates) > 0 {
		r.cache.Invalidate(ctx)
	}
	return &u, nil
}

// Delete removes a user and their comments. Users who still author posts
// cannot be deleted.
func (r *userRepository) Delete(ctx context.Context, id uint) (deleted bool, err error) {
	ctx, finish := observe(ctx, "delete", "users")
	defer func() { finish(err) }()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var posts int64
		if err := tx.Model(&models.Post{}).Where("author_id = ?", id).Count(&posts).Error; err != nil {
			return err
		}
		if posts > 0 {
			return errUserHasPosts
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			err = errUserHasPosts
		}
		return false, storageError("delete user", err)
	}
	if deleted {
		r.cache.Invalidate(ctx)
		r.log.LogWrite(ctx, "delete", slog.Uint64("user_id", uint64(id)))
	}
	return deleted, nil
}
