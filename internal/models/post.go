package models

import "time"

// Post is a blog article. A nil PublishedAt marks a draft.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt     *string    `gorm:"type:text" json:"excerpt"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	CoverImage  *string    `gorm:"type:text" json:"coverImage"`
	AuthorID    uint       `gorm:"not null;index" json:"authorId"`
	Author      *User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PublishedAt *time.Time `gorm:"index" json:"publishedAt"`
	CreatedAt   time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// IsDraft reports whether the post has no publish timestamp.
func (p *Post) IsDraft() bool {
	return p.PublishedAt == nil
}

// PostWithRelations is a post with its author, category links and comments hydrated.
// PostCategories and Comments are never nil.
type PostWithRelations struct {
	Post
	Author         User                `json:"author"`
	PostCategories []PostCategoryRef   `json:"postCategories"`
	Comments       []CommentWithAuthor `json:"comments"`
}

// PostCategoryRef is one hydrated category link.
type PostCategoryRef struct {
	Category Category `json:"category"`
}

// CategoryIDs returns the ids of the linked categories in link order.
func (p *PostWithRelations) CategoryIDs() []uint {
	ids := make([]uint, 0, len(p.PostCategories))
	for _, pc := range p.PostCategories {
		ids = append(ids, pc.Category.ID)
	}
	return ids
}
