package service

import (
	"context"
	"strings"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/google/uuid"
)

// PostService is the content store's post surface. Role checks happen at the
// boundary (the claims carry the role); this layer enforces the structural
// invariants of the aggregate.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

type CreatePostInput struct {
	AuthorID uuid.UUID
	Title    string
	Content  string
}

type UpdatePostInput struct {
	PostID  uuid.UUID
	Title   string
	Content string
}

type ListPostsInput struct {
	Query  string
	Limit  int
	Offset int
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePost persists a new post with an empty comment sequence. The author
// snapshot (id, name, email) is captured from the live user record at
// creation time and is immutable afterwards.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:   title,
		Content: in.Content,
		Author: models.PostAuthor{
			ID:    author.ID,
			Name:  author.Name,
			Email: author.Email,
		},
		Comments: []models.Comment{},
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns posts ordered by creation time descending. A non-empty
// query restricts the listing to matching title/content/author name.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if strings.TrimSpace(in.Query) != "" {
		return s.postRepo.Search(ctx, strings.TrimSpace(in.Query), in.Limit, in.Offset)
	}
	return s.postRepo.List(ctx, in.Limit, in.Offset)
}

func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// UpdatePost replaces title and content in place. The author snapshot and
// the comment sequence are untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = in.Content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID)
}

// DeletePost removes the post and all of its comments atomically.
func (s *PostService) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.postRepo.Delete(ctx, id)
}
