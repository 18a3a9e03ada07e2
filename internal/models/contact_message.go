package models

import (
	"time"
)

// ContactMessage is a public contact-form submission. UserID is optional:
// anonymous submissions are the default case, nothing links a message to an
// authenticated visitor. Read only ever flips false to true.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `gorm:"not null" json:"message"`
	UserID    *uint     `json:"userId,omitempty"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
