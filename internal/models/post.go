package models

import (
	"time"
)

type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"uniqueIndex;size:255;not null" json:"title"`
	Subtitle        string     `gorm:"size:255" json:"subtitle"`
	Slug            string     `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Body            string     `gorm:"type:text" json:"body"`
	MetaDescription string     `gorm:"size:150" json:"meta_description"`
	PublishDate     *time.Time `json:"publish_date"`
	Published       bool       `gorm:"default:false" json:"published"`
	AuthorID        uint       `gorm:"not null;index" json:"author_id"`
	Author          User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Tags            []Tag      `gorm:"many2many:post_tags;" json:"tags"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Derived from the interaction ledger. Counter writes happen inside the
	// same transaction as the ledger write; RecountPost rebuilds them from a
	// full ledger scan.
	LikeCount    int `gorm:"default:0" json:"like_count"`
	DislikeCount int `gorm:"default:0" json:"dislike_count"`
	ShareCount   int `gorm:"default:0" json:"share_count"`
}

// Excerpt returns the leading slice of the body for list views.
func (p *Post) Excerpt() string {
	runes := []rune(p.Body)
	if len(runes) <= 240 {
		return p.Body
	}
	return string(runes[:240])
}
