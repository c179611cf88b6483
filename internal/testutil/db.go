// Package testutil holds database and fixture helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/localnerve/callboard/internal/database"
	"github.com/localnerve/callboard/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain password every fixture user is created with
const Password = "Tr1cky-Passw0rd"

// NewTestDB creates a migrated in-memory SQLite database with foreign keys enforced.
// The pool is pinned to one connection because every :memory: connection is its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying SQL DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateUser inserts an active, activated user
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
		IsActivated:  true,
		SendMessages: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateRubric inserts a rubric; parent may be nil for a super-rubric
func CreateRubric(t *testing.T, db *gorm.DB, name string, order int16, parent *models.Rubric) *models.Rubric {
	t.Helper()
	rubric := &models.Rubric{Name: name, SortOrder: order}
	if parent != nil {
		rubric.SuperRubricID = &parent.ID
	}
	if err := db.Create(rubric).Error; err != nil {
		t.Fatalf("Failed to create rubric %s: %v", name, err)
	}
	return rubric
}

// AdOption customizes a fixture ad
type AdOption func(*models.Ad)

// Inactive hides the fixture ad from public listings
func Inactive() AdOption {
	return func(a *models.Ad) { a.IsActive = false }
}

// CreatedAt pins the fixture ad's creation time
func CreatedAt(at time.Time) AdOption {
	return func(a *models.Ad) { a.CreatedAt = at }
}

// WithImage sets the fixture ad's primary image name
func WithImage(name string) AdOption {
	return func(a *models.Ad) { a.Image = name }
}

// CreateAd inserts an active ad. Content defaults to "About <title>".
func CreateAd(t *testing.T, db *gorm.DB, author *models.User, rubric *models.Rubric, title string, opts ...AdOption) *models.Ad {
	t.Helper()
	ad := &models.Ad{
		RubricID: rubric.ID,
		Title:    title,
		Content:  fmt.Sprintf("About %s", title),
		Price:    10,
		Contacts: "call me",
		AuthorID: author.ID,
		IsActive: true,
	}
	for _, opt := range opts {
		opt(ad)
	}
	if err := db.Omit("Rubric", "Author").Create(ad).Error; err != nil {
		t.Fatalf("Failed to create ad %s: %v", title, err)
	}
	return ad
}

// CreateAdditionalImage attaches an image row to an ad
func CreateAdditionalImage(t *testing.T, db *gorm.DB, ad *models.Ad, name string) *models.AdditionalImage {
	t.Helper()
	img := &models.AdditionalImage{AdID: ad.ID, Image: name}
	if err := db.Create(img).Error; err != nil {
		t.Fatalf("Failed to create additional image: %v", err)
	}
	return img
}

// CreateComment inserts a comment with an explicit active flag and creation time
func CreateComment(t *testing.T, db *gorm.DB, ad *models.Ad, author, content string, active bool, at time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{AdID: ad.ID, Author: author, Content: content, IsActive: active, CreatedAt: at}
	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	return comment
}

// Count returns the number of rows in the model's table matching the optional condition
func Count(t *testing.T, db *gorm.DB, model interface{}, conds ...interface{}) int64 {
	t.Helper()
	var n int64
	query := db.Model(model)
	if len(conds) > 0 {
		query = query.Where(conds[0], conds[1:]...)
	}
	if err := query.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
