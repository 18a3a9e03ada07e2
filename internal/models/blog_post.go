package models

import (
	"time"
)

// BlogPost holds post metadata only. The markdown body lives in object storage
// under StorageKey; handlers fetch it separately so large or frequently edited
// text stays out of the row store.
//
// Lifecycle: draft <-> published via the Published flag, edit is legal in
// either state, delete from any state is terminal.
type BlogPost struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"unique;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	Excerpt     string    `gorm:"not null" json:"excerpt"`
	CoverImage  string    `json:"coverImage,omitempty"`
	StorageKey  string    `gorm:"column:s3_key;not null" json:"s3Key"`
	PublishedAt time.Time `gorm:"not null" json:"publishedAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
	Published   bool      `gorm:"not null;default:false" json:"published"`
	AuthorID    uint      `gorm:"not null" json:"authorId"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Tags        []string  `gorm:"serializer:json;not null" json:"tags"`
	ReadTime    int       `gorm:"not null;default:5" json:"readTime"`
}
