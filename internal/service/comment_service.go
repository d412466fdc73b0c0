package service

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
)

// CommentService mutates the comment sequence of the post aggregate and
// applies the comment-deletion authorization rule.
type CommentService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type AddCommentInput struct {
	RequesterID uuid.UUID
	PostID      uuid.UUID
	Content     string
}

type DeleteCommentInput struct {
	RequesterID   uuid.UUID
	RequesterRole models.Role
	PostID        uuid.UUID
	CommentID     uuid.UUID
}

const maxCommentLen = 10000

func NewCommentService(postRepo repository.PostRepository, userRepo repository.UserRepository) *CommentService {
	return &CommentService{postRepo: postRepo, userRepo: userRepo}
}

// AddComment appends a comment to a post. The author snapshot (id, name) is
// captured from the live user record; the post must exist.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, in.RequesterID)
	if err != nil {
		// The token outlived its account; treat as a failed authentication,
		// not a missing resource.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthenticatedError("Unknown user")
		}
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		Author: models.CommentAuthor{
			ID:   author.ID,
			Name: author.Name,
		},
	}
	if err := s.postRepo.AddComment(ctx, in.PostID, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a single comment. Checks run in the order
// existence-then-authorization: a missing post or comment is NotFound before
// any Forbidden decision is made.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == in.CommentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return models.NewNotFoundError("Comment")
	}

	if !CanDeleteComment(in.RequesterID, in.RequesterRole, post, comment) {
		return models.NewForbiddenError("Not authorized")
	}

	return s.postRepo.RemoveComment(ctx, in.PostID, in.CommentID)
}
