package service

import (
	"context"
	"strings"

	"gazette/internal/models"
	"gazette/internal/policy"
	"gazette/internal/repository"
)

// CommentService implements comment business logic.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// Create attaches a comment to the post. The gate is existence, not
// visibility: commenting on an unpublished or future post succeeds as long
// as the post row exists.
func (s *CommentService) Create(ctx context.Context, authorID, postID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("text is required")
	}
	if _, err := s.posts.GetEnriched(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		PostID:   postID,
		AuthorID: authorID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// ListByPost returns the post's comments oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

// Update rewrites the comment text after an ownership check.
func (s *CommentService) Update(ctx context.Context, viewerID, id uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.NewValidationError("text is required")
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(viewerID, comment.AuthorID) {
		return nil, models.NewUnauthorizedError("you do not own this comment")
	}

	comment.Text = text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment after an ownership check.
func (s *CommentService) Delete(ctx context.Context, viewerID, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(viewerID, comment.AuthorID) {
		return nil, models.NewUnauthorizedError("you do not own this comment")
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return nil, err
	}
	return comment, nil
}
