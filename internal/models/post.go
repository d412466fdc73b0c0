// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostAuthor is a snapshot of the authoring user captured when the post is
// created. It is intentionally not kept in sync with later user edits.
type PostAuthor struct {
	ID    uuid.UUID `gorm:"type:uuid;not null;index" json:"id"`
	Name  string    `gorm:"not null" json:"name"`
	Email string    `gorm:"not null" json:"email"`
}

// Post represents a blog post in the Quill application. Comments are owned by
// the post: they are only ever created or removed through the post's own
// operations and have no independent existence.
type Post struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Author    PostAuthor     `gorm:"embedded;embeddedPrefix:author_" json:"author"`
	Comments  []Comment      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque identifier if the caller did not set one.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
