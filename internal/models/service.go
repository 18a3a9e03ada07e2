package models

import (
	"time"
)

// Service is an offering shown on the services section of the site.
type Service struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `gorm:"not null" json:"description"`
	Icon            string    `gorm:"not null" json:"icon"`
	IconBgColor     string    `gorm:"not null" json:"iconBgColor"`
	Features        []string  `gorm:"serializer:json;not null" json:"features"`
	Price           string    `json:"price,omitempty"`
	EngagementModel string    `json:"engagementModel,omitempty"`
	Popular         bool      `gorm:"default:false" json:"popular"`
	UserID          *uint     `json:"userId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}
