package repository

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sunil-gumatimath/wave-length/internal/cache"
	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
	"github.com/sunil-gumatimath/wave-length/internal/validation"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Add(ctx context.Context, postID, authorID uint, content string) (*models.Comment, error)
	Submit(ctx context.Context, postID uint, email, name, content string) (*models.CommentWithAuthor, error)
}

type commentRepository struct {
	db    *gorm.DB
	cache *cache.Store
	log   *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository. store may be nil.
func NewCommentRepository(db *gorm.DB, store *cache.Store) CommentRepository {
	if store == nil {
		store = cache.NewStore(nil, 0)
	}
	return &commentRepository{db: db, cache: store, log: observability.NewRepoLogger("comments")}
}

// Add stores a comment by an existing user on an existing post.
func (r *commentRepository) Add(ctx context.Context, postID, authorID uint, content string) (comment *models.Comment, err error) {
	ctx, finish := observe(ctx, "add", "comments")
	defer func() { finish(err) }()

	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, postID, "post"); err != nil {
			return err
		}
		if err := requireRow(tx, &models.User{}, authorID, "user"); err != nil {
			return err
		}
		comment = &models.Comment{Content: content, PostID: postID, AuthorID: authorID}
		return insertComment(tx, comment)
	})
	if err != nil {
		return nil, storageError("add comment", err)
	}

	r.created(ctx, comment)
	return comment, nil
}

// Submit records a comment from the public form. The commenter is found or
// created by email and the comment inserted in the same transaction.
func (r *commentRepository) Submit(ctx context.Context, postID uint, email, name, content string) (result *models.CommentWithAuthor, err error) {
	ctx, finish := observe(ctx, "submit", "comments")
	defer func() { finish(err) }()

	normalized, err := validation.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	trimmed, err := validation.ValidateCommenterName(name)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Post{}, postID, "post"); err != nil {
			return err
		}
		author, err := findOrCreateUser(tx, normalized, trimmed)
		if err != nil {
			return err
		}
		comment := models.Comment{Content: content, PostID: postID, AuthorID: author.ID}
		if err := insertComment(tx, &comment); err != nil {
			return err
		}
		result = &models.CommentWithAuthor{Comment: comment, Author: *author}
		return nil
	})
	if err != nil {
		return nil, storageError("submit comment", err)
	}

	r.created(ctx, &result.Comment)
	return result, nil
}

func (r *commentRepository) created(ctx context.Context, c *models.Comment) {
	r.cache.Invalidate(ctx)
	observability.CommentsCreated.Inc()
	r.log.LogWrite(ctx, "create",
		slog.Uint64("comment_id", uint64(c.ID)),
		slog.Uint64("post_id", uint64(c.PostID)),
	)
}

func insertComment(tx *gorm.DB, c *models.Comment) error {
	if err := tx.Create(c).Error; err != nil {
		if isForeignKeyViolation(err) {
			return models.NewNotFoundError("post", c.PostID)
		}
		return storageError("insert comment", err)
	}
	return nil
}

// requireRow returns NotFound(resource, id) when model has no row with id.
func requireRow(tx *gorm.DB, model interface{}, id uint, resource string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return storageError("check "+resource, err)
	}
	if n == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}
