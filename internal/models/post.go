package models

import (
	"time"
)

// Defaults applied when a post is created without an image or category.
const (
	DefaultPostImage    = "https://www.hostinger.com/tutorials/wp-content/uploads/sites/2/2021/09/how-to-write-a-blog-post.png"
	DefaultPostCategory = "uncategorized"
)

// Post is a published article. Title and slug are independently unique: a
// duplicate title is rejected outright while a slug collision is resolved by
// a timestamp suffix. UserID references the author at the application level
// only; deleting a post leaves its comments in place.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `gorm:"uniqueIndex;not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content   string    `gorm:"not null" json:"content"`
	Image     string    `json:"image"`
	Category  string    `gorm:"index" json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
