package store

import (
	"context"
	"time"
)

// Comment represents a single comment row.
type Comment struct {
	ID        int64      `json:"id"`
	PostID    int64      `json:"post_id"`
	UserID    int64      `json:"user_id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// CommentStore persists comments. Add and SoftDelete adjust the post's
// reply counter in the same unit of work as the row change.
type CommentStore interface {
	// AddComment stores c and increments the post's reply count.
	// ErrPostNotFound when the post is absent or tombstoned.
	AddComment(ctx context.Context, c Comment) (Comment, error)
	// ListComments returns up to limit live comments for a post, newest
	// first, strictly below beforeID when beforeID > 0.
	ListComments(ctx context.Context, postID int64, limit int, beforeID int64) ([]Comment, error)
	UpdateComment(ctx context.Context, commentID, userID int64, content string) (Comment, error)
	// SoftDeleteComment tombstones the comment and decrements the post's
	// reply count, which floors at zero.
	SoftDeleteComment(ctx context.Context, commentID, userID int64) error
}
