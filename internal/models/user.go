// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// DefaultProfilePicture is assigned to users who never uploaded an avatar.
const DefaultProfilePicture = "https://cdn.pixabay.com/photo/2015/10/05/22/37/blank-profile-picture-973460_960_720.png"

// User represents an account on the Inkwell platform.
//
// Username and email are each globally unique. The password column holds a
// bcrypt hash and is never serialized. Deleting a user does not cascade to
// their posts or comments.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	ProfilePicture string    `json:"profilePicture"`
	IsAdmin        bool      `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
