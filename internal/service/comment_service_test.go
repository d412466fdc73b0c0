package service

import (
	"context"
	"strings"
	"testing"

	"quill/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCommentService_AddComment(t *testing.T) {
	author := &models.User{ID: uuid.New(), Name: "Bob", Role: models.RoleUser}

	t.Run("captures the commenter snapshot", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, userRepo)

		postID := uuid.New()
		userRepo.On("GetByID", mock.Anything, author.ID).Return(author, nil)
		postRepo.On("AddComment", mock.Anything, postID, mock.AnythingOfType("*models.Comment")).Return(nil)

		comment, err := svc.AddComment(context.Background(), AddCommentInput{
			RequesterID: author.ID,
			PostID:      postID,
			Content:     "  trimmed  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "trimmed", comment.Content)
		assert.Equal(t, author.ID, comment.Author.ID)
		assert.Equal(t, "Bob", comment.Author.Name)
	})

	t.Run("rejects empty or oversized content", func(t *testing.T) {
		svc := NewCommentService(new(MockPostRepository), new(MockUserRepository))

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			RequesterID: author.ID,
			PostID:      uuid.New(),
			Content:     "   ",
		})
		requireCode(t, err, models.CodeValidation)

		_, err = svc.AddComment(context.Background(), AddCommentInput{
			RequesterID: author.ID,
			PostID:      uuid.New(),
			Content:     strings.Repeat("x", 10001),
		})
		requireCode(t, err, models.CodeValidation)
	})

	t.Run("a vanished account is an authentication failure", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, userRepo)

		id := uuid.New()
		userRepo.On("GetByID", mock.Anything, id).Return(nil, models.NewNotFoundError("User"))

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			RequesterID: id,
			PostID:      uuid.New(),
			Content:     "hello",
		})
		requireCode(t, err, models.CodeUnauthenticated)
		postRepo.AssertNotCalled(t, "AddComment")
	})

	t.Run("missing post propagates", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, userRepo)

		postID := uuid.New()
		userRepo.On("GetByID", mock.Anything, author.ID).Return(author, nil)
		postRepo.On("AddComment", mock.Anything, postID, mock.AnythingOfType("*models.Comment")).
			Return(models.NewNotFoundError("Post"))

		_, err := svc.AddComment(context.Background(), AddCommentInput{
			RequesterID: author.ID,
			PostID:      postID,
			Content:     "hello",
		})
		requireCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	postAuthorID := uuid.New()
	commentAuthorID := uuid.New()

	buildPost := func() *models.Post {
		postID := uuid.New()
		return &models.Post{
			ID:     postID,
			Author: models.PostAuthor{ID: postAuthorID},
			Comments: []models.Comment{{
				ID:     uuid.New(),
				PostID: postID,
				Author: models.CommentAuthor{ID: commentAuthorID},
			}},
		}
	}

	t.Run("authorized requester removes the comment", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, new(MockUserRepository))

		post := buildPost()
		commentID := post.Comments[0].ID
		postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)
		postRepo.On("RemoveComment", mock.Anything, post.ID, commentID).Return(nil)

		err := svc.DeleteComment(context.Background(), DeleteCommentInput{
			RequesterID:   commentAuthorID,
			RequesterRole: models.RoleUser,
			PostID:        post.ID,
			CommentID:     commentID,
		})
		require.NoError(t, err)
		postRepo.AssertExpectations(t)
	})

	t.Run("unauthorized requester is forbidden", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, new(MockUserRepository))

		post := buildPost()
		postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)

		err := svc.DeleteComment(context.Background(), DeleteCommentInput{
			RequesterID:   uuid.New(),
			RequesterRole: models.RoleUser,
			PostID:        post.ID,
			CommentID:     post.Comments[0].ID,
		})
		requireCode(t, err, models.CodeForbidden)
		postRepo.AssertNotCalled(t, "RemoveComment")
	})

	t.Run("existence is checked before authorization", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, new(MockUserRepository))

		postID := uuid.New()
		postRepo.On("GetByID", mock.Anything, postID).Return(nil, models.NewNotFoundError("Post"))

		// The requester would also fail authorization; NotFound must win.
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{
			RequesterID:   uuid.New(),
			RequesterRole: models.RoleUser,
			PostID:        postID,
			CommentID:     uuid.New(),
		})
		requireCode(t, err, models.CodeNotFound)
	})

	t.Run("missing comment in an existing post is not found", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		svc := NewCommentService(postRepo, new(MockUserRepository))

		post := buildPost()
		postRepo.On("GetByID", mock.Anything, post.ID).Return(post, nil)

		err := svc.DeleteComment(context.Background(), DeleteCommentInput{
			RequesterID:   uuid.New(),
			RequesterRole: models.RoleUser,
			PostID:        post.ID,
			CommentID:     uuid.New(),
		})
		requireCode(t, err, models.CodeNotFound)
	})
}
