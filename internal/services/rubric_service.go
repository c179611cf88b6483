package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/callboard/internal/models"
	"github.com/localnerve/callboard/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SuperRubrics returns the top-level rubrics ordered by (order, name)
func SuperRubrics(db *gorm.DB) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	err := db.Where("super_rubric_id IS NULL").
		Order("sort_order").Order("name").
		Find(&rubrics).Error
	return rubrics, err
}

// SubRubrics returns every sub-rubric with its parent loaded, ordered by
// (parent order, parent name, order, name)
func SubRubrics(db *gorm.DB) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	err := db.Joins("SuperRubric").
		Where("rubrics.super_rubric_id IS NOT NULL").
		Order(clause.OrderBy{Columns: []clause.OrderByColumn{
			{Column: clause.Column{Table: "SuperRubric", Name: "sort_order"}},
			{Column: clause.Column{Table: "SuperRubric", Name: "name"}},
			{Column: clause.Column{Table: "rubrics", Name: "sort_order"}},
			{Column: clause.Column{Table: "rubrics", Name: "name"}},
		}}).
		Find(&rubrics).Error
	return rubrics, err
}

// AllRubrics returns every rubric ordered by id
func AllRubrics(db *gorm.DB) ([]models.Rubric, error) {
	var rubrics []models.Rubric
	err := db.Order("id").Find(&rubrics).Error
	return rubrics, err
}

// GetRubric loads any rubric by id
func GetRubric(db *gorm.DB, id uint) (*models.Rubric, error) {
	var rubric models.Rubric
	if err := db.Preload("SuperRubric").First(&rubric, id).Error; err != nil {
		return nil, notFound(err, "rubric", id)
	}
	return &rubric, nil
}

// GetSubRubric loads a sub-rubric with its parent. A super-rubric id reads as not found.
func GetSubRubric(db *gorm.DB, id uint) (*models.Rubric, error) {
	var rubric models.Rubric
	err := db.Joins("SuperRubric").
		Where("rubrics.id = ? AND rubrics.super_rubric_id IS NOT NULL", id).
		First(&rubric).Error
	if err != nil {
		return nil, notFound(err, "sub-rubric", id)
	}
	return &rubric, nil
}

// CreateRubric adds a rubric. A nil superID creates a super-rubric; otherwise the
// parent must exist and be top-level.
func CreateRubric(db *gorm.DB, name string, order int16, superID *uint) (*models.Rubric, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 20 {
		return nil, ErrInvalidRubricName
	}

	rubric := &models.Rubric{Name: name, SortOrder: order, SuperRubricID: superID}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Rubric{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRubric
		}

		if superID != nil {
			var parent models.Rubric
			if err := tx.First(&parent, *superID).Error; err != nil {
				return notFound(err, "rubric", *superID)
			}
			if !parent.IsSuper() {
				return ErrInvalidParent
			}
		}

		return tx.Omit(clause.Associations).Create(rubric).Error
	})
	if err != nil {
		return nil, err
	}
	return rubric, nil
}

// DeleteRubric removes a rubric that no ad and no sub-rubric refers to
func DeleteRubric(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var rubric models.Rubric
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rubric, id).Error; err != nil {
			return notFound(err, "rubric", id)
		}

		var ads int64
		if err := tx.Model(&models.Ad{}).Where("rubric_id = ?", id).Count(&ads).Error; err != nil {
			return err
		}
		if ads > 0 {
			return fmt.Errorf("rubric %q has %d ads: %w", rubric.Name, ads, types.ErrReferentialIntegrity)
		}

		var children int64
		if err := tx.Model(&models.Rubric{}).Where("super_rubric_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return fmt.Errorf("rubric %q has %d sub-rubrics: %w", rubric.Name, children, types.ErrReferentialIntegrity)
		}

		return tx.Delete(&rubric).Error
	})
}
