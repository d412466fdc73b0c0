// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"strings"

	"quill/internal/models"
	"quill/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers       int
	NumPosts       int
	MaxComments    int
	ShouldClean    bool
	AdminEmail     string
	DefaultPassword string
}

// DefaultOptions returns the seeding profile used for local development.
func DefaultOptions() Options {
	return Options{
		NumUsers:       20,
		NumPosts:       40,
		MaxComments:    8,
		ShouldClean:    true,
		AdminEmail:     "admin@quill.dev",
		DefaultPassword: "password123",
	}
}

// Seed populates the database with test data. Exactly one admin is created;
// everything else gets the default role.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	users, err := createUsers(db, opts)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	posts, err := createPosts(db, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	numComments, err := createComments(db, users, posts, opts.MaxComments)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", numComments)

	log.Println("🌱 Seeding complete")
	return nil
}

func clearData(db *gorm.DB) error {
	// Children first
	for _, stmt := range []string{
		"DELETE FROM comments",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, opts Options) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(opts.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, opts.NumUsers)

	// The single admin account
	admin := models.User{
		Name:     "Quill Admin",
		Email:    service.NormalizeEmail(opts.AdminEmail),
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Bio:      "Runs the place.",
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 1; i < opts.NumUsers; i++ {
		name := gofakeit.Name()
		email := service.NormalizeEmail(fmt.Sprintf("%s%d@%s",
			strings.ReplaceAll(strings.ToLower(name), " ", "."), i, gofakeit.DomainName()))

		user := models.User{
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Role:     models.RoleUser,
			Bio:      gofakeit.Sentence(10),
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, numPosts int) ([]models.Post, error) {
	// Only the admin authors posts; that mirrors production authorization.
	admin := users[0]

	posts := make([]models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		post := models.Post{
			Title:   strings.TrimSuffix(gofakeit.Sentence(gofakeit.Number(3, 8)), "."),
			Content: gofakeit.Paragraph(2, 4, 12, "\n\n"),
			Author: models.PostAuthor{
				ID:    admin.ID,
				Name:  admin.Name,
				Email: admin.Email,
			},
		}
		if err := db.Create(&post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func createComments(db *gorm.DB, users []models.User, posts []models.Post, maxPerPost int) (int, error) {
	if maxPerPost <= 0 {
		return 0, nil
	}

	total := 0
	for _, post := range posts {
		n := gofakeit.Number(0, maxPerPost)
		for i := 0; i < n; i++ {
			author := users[gofakeit.Number(0, len(users)-1)]
			comment := models.Comment{
				PostID:  post.ID,
				Content: gofakeit.Sentence(gofakeit.Number(5, 20)),
				Author: models.CommentAuthor{
					ID:   author.ID,
					Name: author.Name,
				},
			}
			if err := db.Create(&comment).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
