package models

import "time"

// Comment is feedback left on an ad. Author is free text: the username for
// logged-in commenters, whatever a guest typed otherwise.
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AdID      uint      `gorm:"not null;index" json:"ad"`
	Author    string    `gorm:"size:30;not null" json:"author"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsActive  bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
