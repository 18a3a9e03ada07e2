package models

import (
	"time"
)

// Project is a portfolio entry. Read-mostly: the public site lists them, the
// admin API maintains them.
type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Image       string    `gorm:"not null" json:"image"`
	Category    string    `gorm:"not null" json:"category"`
	Tags        []string  `gorm:"serializer:json;not null" json:"tags"`
	GithubLink  string    `json:"githubLink,omitempty"`
	DemoLink    string    `json:"demoLink,omitempty"`
	UserID      *uint     `json:"userId,omitempty"`
	Featured    bool      `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}
