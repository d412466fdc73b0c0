// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentAuthor is a snapshot of the commenting user captured when the
// comment is created.
type CommentAuthor struct {
	ID   uuid.UUID `gorm:"type:uuid;not null" json:"id"`
	Name string    `gorm:"not null" json:"name"`
}

// Comment represents a comment embedded in a post's comment sequence.
// Comments are reachable only through their parent post.
type Comment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	Content   string         `gorm:"not null" json:"content"`
	Author    CommentAuthor  `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque identifier if the caller did not set one.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
