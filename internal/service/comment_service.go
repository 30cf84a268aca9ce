package service

import (
	"context"

	"github.com/sunil-gumatimath/wave-length/internal/models"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
	"github.com/sunil-gumatimath/wave-length/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
}

// SubmitCommentInput is a comment from the public form.
type SubmitCommentInput struct {
	PostID  uint
	Name    string
	Email   string
	Content string
}

func NewCommentService(comments repository.CommentRepository) *CommentService {
	return &CommentService{comments: comments}
}

// SubmitComment records a reader comment, creating the reader on first use of their email.
func (s *CommentService) SubmitComment(ctx context.Context, in SubmitCommentInput) (comment *models.CommentWithAuthor, err error) {
	ctx, span := observability.TraceServiceCall(ctx, "CommentService", "SubmitComment")
	defer func() { observability.EndSpan(span, err) }()

	if in.PostID == 0 {
		return nil, models.NewValidationError("postId", "post is required")
	}
	return s.comments.Submit(ctx, in.PostID, in.Email, in.Name, in.Content)
}
