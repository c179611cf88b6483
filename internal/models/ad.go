package models

import "time"

// Ad is a classified listing filed under a sub-rubric
type Ad struct {
	ID               uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	RubricID         uint              `gorm:"not null;index" json:"rubric"`
	Rubric           Rubric            `gorm:"foreignKey:RubricID;constraint:OnDelete:RESTRICT" json:"-"`
	Title            string            `gorm:"size:40;not null" json:"title"`
	Content          string            `gorm:"type:text;not null" json:"content"`
	Price            float64           `gorm:"not null" json:"price"`
	Contacts         string            `gorm:"type:text;not null" json:"contacts"`
	Image            string            `gorm:"size:255;not null" json:"image"`
	AuthorID         uint              `gorm:"not null;index" json:"author"`
	Author           User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	IsActive         bool              `gorm:"not null;index" json:"is_active"`
	CreatedAt        time.Time         `gorm:"index" json:"created_at"`
	AdditionalImages []AdditionalImage `gorm:"foreignKey:AdID;constraint:OnDelete:CASCADE" json:"-"`
	Comments         []Comment         `gorm:"foreignKey:AdID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name for Ad
func (Ad) TableName() string {
	return "ads"
}

// AdditionalImage is an extra illustration attached to an ad
type AdditionalImage struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	AdID  uint   `gorm:"not null;index" json:"ad"`
	Image string `gorm:"size:255;not null" json:"image"`
}

// TableName overrides the table name for AdditionalImage
func (AdditionalImage) TableName() string {
	return "additional_images"
}
