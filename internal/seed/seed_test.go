package seed

import (
	"testing"

	"quill/internal/database"
	"quill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.NumUsers = 5
	opts.NumPosts = 6
	opts.MaxComments = 3
	return opts
}

func TestSeed(t *testing.T) {
	db := setupDB(t)
	opts := smallOptions()

	require.NoError(t, Seed(db, opts))

	var userCount, postCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.EqualValues(t, opts.NumUsers, userCount)
	assert.EqualValues(t, opts.NumPosts, postCount)

	// Exactly one admin, always
	var adminCount int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error)
	assert.EqualValues(t, 1, adminCount)

	var admin models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin@quill.dev", admin.Email)

	// Every post carries the admin's author snapshot
	var posts []models.Post
	require.NoError(t, db.Find(&posts).Error)
	for _, p := range posts {
		assert.Equal(t, admin.ID, p.Author.ID)
	}
}

func TestSeedCleanIsRepeatable(t *testing.T) {
	db := setupDB(t)
	opts := smallOptions()

	require.NoError(t, Seed(db, opts))
	require.NoError(t, Seed(db, opts))

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, opts.NumUsers, userCount)
}
