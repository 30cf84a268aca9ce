package models

import "time"

// Comment is a reader comment. It is removed with its post or its author.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (Comment) TableName() string { return "comments" }

// CommentWithAuthor is a comment with its author hydrated.
type CommentWithAuthor struct {
	Comment
	Author User `json:"author"`
}
