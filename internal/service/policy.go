package service

import (
	"quill/internal/models"

	"github.com/google/uuid"
)

// Authorization policy. These are pure decision functions: callers pass the
// requester's identity claims and the ownership facts of the targeted
// resource, and get a yes/no back. Existence checks happen before
// authorization, so a missing resource surfaces as NotFound rather than
// Forbidden.

// CanManagePosts reports whether a role may create, update or delete posts
// and use the admin listing endpoints. Authorship alone is deliberately not
// sufficient; only the admin role grants content management.
func CanManagePosts(role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleUser:
		return false
	}
	return false
}

// CanComment reports whether a role may comment on posts. Any authenticated
// identity qualifies.
func CanComment(role models.Role) bool {
	return role.Valid()
}

// CanDeleteComment reports whether the requester may delete a comment:
// the comment's author, the owning post's author, or an admin.
func CanDeleteComment(requesterID uuid.UUID, role models.Role, post *models.Post, comment *models.Comment) bool {
	if comment.Author.ID == requesterID {
		return true
	}
	if post.Author.ID == requesterID {
		return true
	}
	return role == models.RoleAdmin
}
