package models

import (
	"time"
)

// Comment is a reader comment on a post.
//
// The liker set is persisted in comment_likes; NumberOfLikes is kept equal to
// the size of that set and is only ever moved by CommentRepository.ToggleLike.
// Likes is a read-time projection of the set for API responses.
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"index;not null" json:"postId"`
	UserID        uint      `gorm:"index;not null" json:"userId"`
	Content       string    `gorm:"not null" json:"content"`
	NumberOfLikes int       `gorm:"not null;default:0" json:"numberOfLikes"`
	Likes         []uint    `gorm:"-" json:"likes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CommentLike records one user's like on one comment.
// The (comment_id, user_id) pair is unique, which is what makes the
// toggle's insert-or-delete branch safe under concurrency.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"commentId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
