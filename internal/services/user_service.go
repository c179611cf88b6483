package services

import (
	"fmt"
	"strings"

	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivationResult is the outcome of following an activation link
type ActivationResult int

const (
	// Activated means this call switched the account on
	Activated ActivationResult = iota
	// AlreadyActivated means the account had been activated before
	AlreadyActivated
)

// RegisterInput is a validated registration
type RegisterInput struct {
	Username     string
	Email        string
	Password     string
	FirstName    string
	LastName     string
	SendMessages bool
}

// ProfileInput is a validated profile change
type ProfileInput struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	SendMessages bool
}

// UsernameTaken reports whether another user (not excludeID) holds username
func UsernameTaken(db *gorm.DB, username string, excludeID uint) (bool, error) {
	var count int64
	query := db.Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Register creates an inactive, unactivated user
func Register(db *gorm.DB, input RegisterInput) (*models.User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		IsActive:     false,
		IsActivated:  false,
		SendMessages: input.SendMessages,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		taken, err := UsernameTaken(tx, user.Username, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Activate switches on the account named by an activation token. The guarded
// update makes concurrent activations of the same account report
// AlreadyActivated to all but one caller.
func Activate(db *gorm.DB, username string) (*models.User, ActivationResult, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, 0, notFound(err, "user", username)
	}
	if user.IsActivated {
		return &user, AlreadyActivated, nil
	}

	result := db.Model(&models.User{}).
		Where("id = ? AND is_activated = ?", user.ID, false).
		Updates(map[string]interface{}{"is_active": true, "is_activated": true})
	if result.Error != nil {
		return nil, 0, result.Error
	}
	if result.RowsAffected == 0 {
		return &user, AlreadyActivated, nil
	}

	user.IsActive = true
	user.IsActivated = true
	return &user, Activated, nil
}

// UpdateProfile stores the user's editable profile fields
func UpdateProfile(db *gorm.DB, user *models.User, input ProfileInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		username := strings.TrimSpace(input.Username)
		taken, err := UsernameTaken(tx, username, user.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}

		user.Username = username
		user.Email = strings.TrimSpace(input.Email)
		user.FirstName = strings.TrimSpace(input.FirstName)
		user.LastName = strings.TrimSpace(input.LastName)
		user.SendMessages = input.SendMessages

		return tx.Model(user).
			Select("username", "email", "first_name", "last_name", "send_messages").
			Updates(user).Error
	})
}

// DeleteUser removes a user with every ad, image and comment under their ads.
// It returns the stored file names to remove.
func DeleteUser(db *gorm.DB, userID uint) ([]string, error) {
	var files []string

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return notFound(err, "user", userID)
		}

		var adIDs []uint
		if err := tx.Model(&models.Ad{}).Where("author_id = ?", user.ID).Pluck("id", &adIDs).Error; err != nil {
			return err
		}

		var err error
		if files, err = deleteAds(tx, adIDs); err != nil {
			return err
		}

		result := tx.Delete(&user)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", userID, types.ErrNotFound)
		}
		return nil
	})

	return files, err
}

// FindUserByUsername loads a user by exact username
func FindUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFound(err, "user", username)
	}
	return &user, nil
}
