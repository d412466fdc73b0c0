package repository

import (
	"context"
	"errors"
	"strings"

	"quill/internal/cache"
	"quill/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines persistence operations for the post aggregate.
// Comments are part of the aggregate: they are appended and removed only
// through the owning post and are never addressed independently.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddComment(ctx context.Context, postID uuid.UUID, comment *models.Comment) error
	RemoveComment(ctx context.Context, postID, commentID uuid.UUID) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	key := cache.PostKey(id)

	err := cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Comments", orderComments).
			First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	normalizeComments(&post)
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Comments", orderComments).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		normalizeComments(p)
	}
	return posts, nil
}

// Search restricts the listing to posts whose title, content or author name
// contains the query, case-insensitively.
func (r *postRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + strings.ToLower(query) + "%"
	if err := r.db.WithContext(ctx).
		Preload("Comments", orderComments).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(author_name) LIKE ?", like, like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, p := range posts {
		normalizeComments(p)
	}
	return posts, nil
}

// Update persists title/content changes. The author snapshot and the comment
// sequence are never touched here.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"title":   post.Title,
			"content": post.Content,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post")
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and its entire comment sequence in one transaction;
// comments have no existence outside their post.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Post{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post")
		}
		return nil
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// AddComment appends to the post's comment sequence. Existence of the parent
// is checked inside the same transaction as the insert.
func (r *postRepository) AddComment(ctx context.Context, postID uuid.UUID, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Post")
		}

		comment.PostID = postID
		if err := tx.Create(comment).Error; err != nil {
			return models.NewInternalError(err)
		}

		// Appending to the sequence is a write to the aggregate.
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("updated_at", tx.NowFunc()).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

// RemoveComment deletes a single comment from the post's sequence. The delete
// is keyed on both ids in one statement, so concurrent removals on the same
// post cannot lose updates.
func (r *postRepository) RemoveComment(ctx context.Context, postID, commentID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
			return models.NewInternalError(err)
		}
		if count == 0 {
			return models.NewNotFoundError("Post")
		}

		res := tx.Where("id = ? AND post_id = ?", commentID, postID).Delete(&models.Comment{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment")
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("updated_at", tx.NowFunc()).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func orderComments(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func normalizeComments(post *models.Post) {
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
}
