package models

import "time"

// Category groups posts. Slugs are unique independently of post slugs.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Slug      string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (Category) TableName() string { return "categories" }

// PostCategory links a post to a category.
type PostCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;uniqueIndex:idx_post_categories_pair" json:"postId"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_post_categories_pair;index" json:"categoryId"`
	Post       *Post     `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (PostCategory) TableName() string { return "post_categories" }
