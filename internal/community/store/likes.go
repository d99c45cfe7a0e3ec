package store

import "context"

// LikeStore persists per-user post likes. The like row and the counter move
// together: two simultaneous likes by different users are both recorded.
type LikeStore interface {
	// Like records the user's like and increments the counter. Re-liking is
	// a no-op returning the current count. ErrPostNotFound when the post is
	// absent or tombstoned.
	Like(ctx context.Context, postID, userID int64) (likeCount int64, err error)
	// Unlike removes the like and decrements the counter, floored at zero.
	// Unliking a post the user never liked is a no-op.
	Unlike(ctx context.Context, postID, userID int64) (likeCount int64, err error)
	IsLiked(ctx context.Context, postID, userID int64) (bool, error)
}
