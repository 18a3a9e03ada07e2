// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role values for User.Role. Admin is the single elevated level; there is no
// per-resource ACL beyond the admin/user split.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account. Regular users only exist as owners/authors of
// content; the CMS is gated to admins.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `gorm:"not null;default:user" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`

	Projects  []Project        `gorm:"foreignKey:UserID" json:"-"`
	Services  []Service        `gorm:"foreignKey:UserID" json:"-"`
	Messages  []ContactMessage `gorm:"foreignKey:UserID" json:"-"`
	BlogPosts []BlogPost       `gorm:"foreignKey:AuthorID" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser is the user shape returned by the API; it never carries the
// password hash.
type PublicUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

// Public strips the credential fields for API responses.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
}
