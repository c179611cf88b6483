package models

import (
	"strings"
	"time"
)

// User is a site account. A freshly registered user is neither active nor activated
// until the emailed activation link is followed.
type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string     `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"size:254;not null" json:"email"`
	FirstName    string     `gorm:"size:150;not null" json:"first_name"`
	LastName     string     `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	IsActivated  bool       `gorm:"not null;index" json:"is_activated"`
	SendMessages bool       `gorm:"not null" json:"send_messages"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"date_joined"`
	UpdatedAt    time.Time  `json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// FullName joins first and last name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
