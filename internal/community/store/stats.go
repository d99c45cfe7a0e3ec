package store

import "context"

// PostStats is the per-post mutable aggregate. The row is created lazily on
// first view, like, reply or vote; counters never go negative.
// Invariant: TotalVoteCount == AiVoteCount + HumanVoteCount.
type PostStats struct {
	PostID         int64 `json:"post_id"`
	ViewCount      int64 `json:"view_count"`
	LikeCount      int64 `json:"like_count"`
	ReplyCount     int64 `json:"reply_count"`
	AiVoteCount    int64 `json:"ai_vote_count"`
	HumanVoteCount int64 `json:"human_vote_count"`
	TotalVoteCount int64 `json:"total_vote_count"`
}

// StatsStore reads and mutates post aggregates. Increments are atomic
// add-and-return at the storage boundary; concurrent single-field updates
// must not lose writes.
type StatsStore interface {
	// GetStats returns the post's counters, creating the zero row if
	// absent. ErrPostNotFound when the post is absent or tombstoned.
	GetStats(ctx context.Context, postID int64) (PostStats, error)
	IncrementView(ctx context.Context, postID int64) (PostStats, error)
}
