// Command seed populates the database with development data.
package main

import (
	"flag"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.NumUsers, "users", opts.NumUsers, "number of users to create")
	flag.IntVar(&opts.NumPosts, "posts", opts.NumPosts, "number of posts to create")
	flag.IntVar(&opts.MaxComments, "max-comments", opts.MaxComments, "maximum comments per post")
	flag.BoolVar(&opts.ShouldClean, "clean", opts.ShouldClean, "delete existing data first")
	flag.StringVar(&opts.AdminEmail, "admin-email", opts.AdminEmail, "email for the admin account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
