package models

import "time"

// Wire shapes shared by the JSON API and its client.

// PostWithCategoryIDs is the admin editing shape: only membership matters.
type PostWithCategoryIDs struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	CoverImageURL string   `json:"coverImageURL"`
	CategoryIDs   []string `json:"categoryIds"`
}

// PostWithCategories is the public display shape with category names expanded.
type PostWithCategories struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	CoverImageURL string         `json:"coverImageURL"`
	CreatedAt     time.Time      `json:"createdAt"`
	Categories    []CategoryName `json:"categories"`
}

type CategoryName struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PostInput is the full field set of a post create or update.
type PostInput struct {
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	CoverImageURL string   `json:"coverImageURL"`
	CategoryIDs   []string `json:"categoryIds"`
}

type CategoryInput struct {
	Name string `json:"name"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

func NewPostWithCategoryIDs(p *Post) PostWithCategoryIDs {
	return PostWithCategoryIDs{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
		CategoryIDs:   p.CategoryIDs(),
	}
}

// NewPostWithCategories expects the join rows to be preloaded with their
// Category.
func NewPostWithCategories(p *Post) PostWithCategories {
	cats := make([]CategoryName, 0, len(p.Categories))
	for _, pc := range p.Categories {
		cats = append(cats, CategoryName{ID: pc.CategoryID, Name: pc.Category.Name})
	}
	return PostWithCategories{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
		CreatedAt:     p.CreatedAt,
		Categories:    cats,
	}
}
