package models

import "fmt"

// Rubric is a category. A rubric without a parent is a super-rubric; one with a
// parent is a sub-rubric. Ads may only be filed under sub-rubrics.
type Rubric struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string  `gorm:"size:20;uniqueIndex;not null" json:"name"`
	SortOrder     int16   `gorm:"not null;default:0;index" json:"order"`
	SuperRubricID *uint   `gorm:"index" json:"super_rubric"`
	SuperRubric   *Rubric `gorm:"foreignKey:SuperRubricID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName overrides the table name for Rubric
func (Rubric) TableName() string {
	return "rubrics"
}

// IsSuper reports whether the rubric is top-level
func (r Rubric) IsSuper() bool {
	return r.SuperRubricID == nil
}

// String renders "Super - Sub" for sub-rubrics with a loaded parent
func (r Rubric) String() string {
	if r.SuperRubric != nil {
		return fmt.Sprintf("%s - %s", r.SuperRubric.Name, r.Name)
	}
	return r.Name
}
