// Package repository implements the data access layer for the application.
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

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user matches, so callers can
// distinguish absence from storage failure without leaking which it was to
// the client.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Omit("password").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// SetRole changes a user's role. Promotion to admin is a conditional write:
// the row is only updated if no other live user already holds the admin role,
// so concurrent promotions cannot race past the single-admin invariant.
func (r *userRepository) SetRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, models.NewValidationError("Invalid role")
	}

	var res *gorm.DB
	if role == models.RoleAdmin {
		res = r.db.WithContext(ctx).Exec(
			`UPDATE users SET role = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ? AND deleted_at IS NULL
			 AND NOT EXISTS (
			   SELECT 1 FROM users u
			   WHERE u.role = 'admin' AND u.id <> users.id AND u.deleted_at IS NULL
			 )`,
			role, id,
		)
	} else {
		res = r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", id).
			Update("role", role)
	}

	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			// The partial unique index tripped: another admin exists.
			return nil, models.NewConflictError("Only one admin is allowed")
		}
		return nil, models.NewInternalError(res.Error)
	}

	cache.InvalidateUser(ctx, id)

	if res.RowsAffected == 0 {
		// Either the user is gone or the conditional write refused a
		// second admin; tell the two cases apart.
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
		if count == 0 {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewConflictError("Only one admin is allowed")
	}

	return r.GetByID(ctx, id)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505; SQLite reports its own phrase.
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}
