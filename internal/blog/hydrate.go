package blog

import "github.com/sunil-gumatimath/wave-length/internal/models"

// Rows is the flat result of the separate queries behind a post listing.
// Users must contain both post authors and comment authors.
type Rows struct {
	Posts      []models.Post
	Users      []models.User
	Categories []models.Category
	Links      []models.PostCategory
	Comments   []models.Comment
}

// Assemble groups the flat rows into posts with relations, keeping the order
// of rows.Posts and, per post, the order of rows.Links and rows.Comments.
//
// A post whose author is missing is dropped. Links to missing categories and
// comments by missing users are dropped. Slices in the result are never nil.
func Assemble(rows Rows) []models.PostWithRelations {
	users := make(map[uint]models.User, len(rows.Users))
	for _, u := range rows.Users {
		users[u.ID] = u
	}
	categories := make(map[uint]models.Category, len(rows.Categories))
	for _, c := range rows.Categories {
		categories[c.ID] = c
	}

	links := make(map[uint][]models.PostCategoryRef)
	for _, l := range rows.Links {
		cat, ok := categories[l.CategoryID]
		if !ok {
			continue
		}
		links[l.PostID] = append(links[l.PostID], models.PostCategoryRef{Category: cat})
	}

	comments := make(map[uint][]models.CommentWithAuthor)
	for _, c := range rows.Comments {
		author, ok := users[c.AuthorID]
		if !ok {
			continue
		}
		c.Post, c.Author = nil, nil
		comments[c.PostID] = append(comments[c.PostID], models.CommentWithAuthor{Comment: c, Author: author})
	}

	result := make([]models.PostWithRelations, 0, len(rows.Posts))
	for _, p := range rows.Posts {
		author, ok := users[p.AuthorID]
		if !ok {
			continue
		}
		p.Author = nil

		pcs := links[p.ID]
		if pcs == nil {
			pcs = []models.PostCategoryRef{}
		}
		cs := comments[p.ID]
		if cs == nil {
			cs = []models.CommentWithAuthor{}
		}

		result = append(result, models.PostWithRelations{
			Post:           p,
			Author:         author,
			PostCategories: pcs,
			Comments:       cs,
		})
	}
	return result
}
