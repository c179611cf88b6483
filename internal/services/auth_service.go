package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt cost used for new password hashes
var PasswordCost = bcrypt.DefaultCost

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's stored hash
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Authenticate verifies credentials and stamps last_login. Unknown users, wrong
// passwords, and inactive accounts all yield ErrInvalidCredentials.
func Authenticate(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(&user, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return &user, nil
}

// GetActiveUser loads a user for a session. Missing and inactive users read as unauthorized.
func GetActiveUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, types.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("user %d is inactive: %w", id, types.ErrUnauthorized)
	}
	return &user, nil
}

// ChangePassword replaces the user's password after checking the old one
func ChangePassword(db *gorm.DB, user *models.User, oldPassword, newPassword string) error {
	if !CheckPassword(user, oldPassword) {
		return ErrWrongPassword
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := db.Model(user).Update("password_hash", hash).Error; err != nil {
		return err
	}
	user.PasswordHash = hash
	return nil
}
