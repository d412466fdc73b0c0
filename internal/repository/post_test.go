package repository

import (
	"context"
	"testing"
	"time"

	"quill/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPost(title, content string) *models.Post {
	return &models.Post{
		Title:   title,
		Content: content,
		Author: models.PostAuthor{
			ID:    uuid.New(),
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
	}
}

func newComment(authorName string) *models.Comment {
	return &models.Comment{
		Content: "a comment",
		Author: models.CommentAuthor{
			ID:   uuid.New(),
			Name: authorName,
		},
	}
}

func TestPostRepository_CreateAndGet(t *testing.T) {
	repo := NewPostRepository(setupDB(t))
	ctx := context.Background()

	post := newPost("Hello", "First content")
	require.NoError(t, repo.Create(ctx, post))
	assert.NotEqual(t, uuid.Nil, post.ID)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "Ada Lovelace", got.Author.Name)
	assert.Equal(t, "ada@example.com", got.Author.Email)
	require.NotNil(t, got.Comments)
	assert.Empty(t, got.Comments)

	_, err = repo.GetByID(ctx, uuid.New())
	requireCode(t, err, models.CodeNotFound)
}

func TestPostRepository_ListNewestFirst(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	older := newPost("Older", "content")
	newer := newPost("Newer", "content")
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	// Force distinct timestamps; sqlite stores what gorm hands it.
	require.NoError(t, db.Model(older).UpdateColumn("created_at", time.Now().Add(-time.Hour)).Error)

	posts, err := repo.List(ctx, 50, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Newer", posts[0].Title)
	assert.Equal(t, "Older", posts[1].Title)
}

func TestPostRepository_Search(t *testing.T) {
	repo := NewPostRepository(setupDB(t))
	ctx := context.Background()

	matching := newPost("Gopher News", "nothing here")
	require.NoError(t, repo.Create(ctx, matching))

	byContent := newPost("Unrelated", "all about gophers")
	require.NoError(t, repo.Create(ctx, byContent))

	byAuthor := newPost("Unrelated too", "nothing here")
	byAuthor.Author.Name = "Gopherina"
	require.NoError(t, repo.Create(ctx, byAuthor))

	miss := newPost("Python", "snakes only")
	require.NoError(t, repo.Create(ctx, miss))

	posts, err := repo.Search(ctx, "GOPHER", 50, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 3)

	posts, err = repo.Search(ctx, "rust", 50, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPostRepository_Update(t *testing.T) {
	repo := NewPostRepository(setupDB(t))
	ctx := context.Background()

	post := newPost("Original", "original content")
	require.NoError(t, repo.Create(ctx, post))

	post.Title = "Edited"
	post.Content = "edited content"
	require.NoError(t, repo.Update(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, "edited content", got.Content)
	// The author snapshot never changes after creation
	assert.Equal(t, "Ada Lovelace", got.Author.Name)

	missing := newPost("Ghost", "content")
	missing.ID = uuid.New()
	requireCode(t, repo.Update(ctx, missing), models.CodeNotFound)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := newPost("Doomed", "content")
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.AddComment(ctx, post.ID, newComment("Bob")))
	require.NoError(t, repo.AddComment(ctx, post.ID, newComment("Carol")))

	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	requireCode(t, err, models.CodeNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)

	requireCode(t, repo.Delete(ctx, uuid.New()), models.CodeNotFound)
}

func TestPostRepository_AddComment(t *testing.T) {
	repo := NewPostRepository(setupDB(t))
	ctx := context.Background()

	post := newPost("Discussed", "content")
	require.NoError(t, repo.Create(ctx, post))

	first := newComment("Bob")
	require.NoError(t, repo.AddComment(ctx, post.ID, first))
	time.Sleep(10 * time.Millisecond)
	second := newComment("Carol")
	require.NoError(t, repo.AddComment(ctx, post.ID, second))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	// Append order is preserved
	assert.Equal(t, "Bob", got.Comments[0].Author.Name)
	assert.Equal(t, "Carol", got.Comments[1].Author.Name)
	assert.Equal(t, post.ID, got.Comments[0].PostID)

	requireCode(t, repo.AddComment(ctx, uuid.New(), newComment("Dave")), models.CodeNotFound)
}

func TestPostRepository_AddCommentTouchesPost(t *testing.T) {
	db := setupDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := newPost("Touched", "content")
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, db.Model(post).UpdateColumn("updated_at", time.Now().Add(-time.Hour)).Error)

	before := fetchUpdatedAt(t, db, post.ID)
	require.NoError(t, repo.AddComment(ctx, post.ID, newComment("Bob")))
	after := fetchUpdatedAt(t, db, post.ID)

	assert.True(t, after.After(before))
}

func TestPostRepository_RemoveComment(t *testing.T) {
	repo := NewPostRepository(setupDB(t))
	ctx := context.Background()

	post := newPost("Discussed", "content")
	require.NoError(t, repo.Create(ctx, post))

	keep := newComment("Bob")
	drop := newComment("Carol")
	require.NoError(t, repo.AddComment(ctx, post.ID, keep))
	require.NoError(t, repo.AddComment(ctx, post.ID, drop))

	require.NoError(t, repo.RemoveComment(ctx, post.ID, drop.ID))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, keep.ID, got.Comments[0].ID)

	requireCode(t, repo.RemoveComment(ctx, post.ID, uuid.New()), models.CodeNotFound)
	requireCode(t, repo.RemoveComment(ctx, uuid.New(), keep.ID), models.CodeNotFound)
}

func fetchUpdatedAt(t *testing.T, db *gorm.DB, postID uuid.UUID) time.Time {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, "id = ?", postID).Error)
	return post.UpdatedAt
}
