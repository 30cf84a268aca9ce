// Package models contains the persisted blog entities and their API shapes.
package models

import "time"

// User is a post author or commenter. Commenters are created on first comment.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Avatar    *string   `gorm:"type:text" json:"avatar"`
	Bio       *string   `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName pins the table name used by migrations.
func (User) TableName() string { return "users" }
