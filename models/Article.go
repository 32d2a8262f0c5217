package models

import (
	"time"

	"gorm.io/gorm"
)

// Article backs the static informational content: legal buying guides,
// blog posts, and knowledge-base entries.
type Article struct {
	gorm.Model
	Kind     string `json:"kind" gorm:"size:20;index"` // legal-guide, blog, kb
	Slug     string `json:"slug" gorm:"size:160;uniqueIndex"`
	Title    string `json:"title" gorm:"size:200"`
	Summary  string `json:"summary" gorm:"size:500"`
	Body     string `json:"body" gorm:"type:text"`
	AuthorID *uint  `json:"authorID"`
	Author   *User  `json:"author" gorm:"foreignKey:AuthorID;references:ID"`

	Published   bool       `json:"published" gorm:"default:false;index"`
	PublishedAt *time.Time `json:"publishedAt"`
}
