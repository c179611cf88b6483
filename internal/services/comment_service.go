package services

import (
	"fmt"
	"strings"

	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveComments returns the visible comments of an ad, oldest first
func ActiveComments(db *gorm.DB, adID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.Where("ad_id = ? AND is_active = ?", adID, true).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, err
}

// AddComment posts a visible comment on an ad
func AddComment(db *gorm.DB, adID uint, author, content string) (*models.Comment, error) {
	comment := &models.Comment{
		AdID:     adID,
		Author:   strings.TrimSpace(author),
		Content:  content,
		IsActive: true,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Ad{}).Where("id = ?", adID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("ad %d: %w", adID, types.ErrNotFound)
		}
		return tx.Omit(clause.Associations).Create(comment).Error
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// SetCommentActive shows or hides a comment
func SetCommentActive(db *gorm.DB, commentID uint, active bool) error {
	var comment models.Comment
	if err := db.First(&comment, commentID).Error; err != nil {
		return notFound(err, "comment", commentID)
	}
	return db.Model(&comment).Update("is_active", active).Error
}
