package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // json:"-" keeps the hash out of every response
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Post struct {
	ID            string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title         string         `gorm:"size:100;not null" json:"title"`
	Content       string         `gorm:"type:text;not null" json:"content"` // raw HTML, sanitized at render time
	CoverImageURL string         `gorm:"column:cover_image_url;not null" json:"coverImageURL"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Categories    []PostCategory `gorm:"foreignKey:PostID" json:"-"`
}

type Category struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostCategory is the join row between posts and categories. The composite
// primary key keeps each pair unique.
type PostCategory struct {
	PostID     string   `gorm:"primaryKey;type:varchar(36)" json:"postId"`
	CategoryID string   `gorm:"primaryKey;type:varchar(36);index" json:"categoryId"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryIDs projects the loaded join rows to bare category ids.
func (p *Post) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, pc := range p.Categories {
		ids = append(ids, pc.CategoryID)
	}
	return ids
}
