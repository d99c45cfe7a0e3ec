package store

import (
	"context"
	"time"
)

// VoteType is a voter's guess about a post's author.
type VoteType string

const (
	VoteAI    VoteType = "AI"
	VoteHuman VoteType = "HUMAN"
)

// PostVote is immutable once created. Correct is derived exactly once at
// creation time and never recomputed.
type PostVote struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	VoteType  VoteType  `json:"vote_type"`
	Correct   bool      `json:"is_correct"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteOutcome is the state produced by recording a vote: the stored vote,
// the post's updated tally and the voter's updated ledger.
type VoteOutcome struct {
	Vote  PostVote
	Stats PostStats
	Score UserScore
}

// VoteStore persists votes. At most one vote per (user, post) pair; the
// backend enforces this so that one of two racing attempts fails with
// ErrDuplicateVote rather than double-counting.
type VoteStore interface {
	// RecordVote inserts v and, in the same unit of work, increments the
	// post's vote counters and the voter's ledger. Partial application is
	// never observable.
	RecordVote(ctx context.Context, v PostVote) (VoteOutcome, error)
	// GetVote returns the caller's vote on a post; ok is false when the
	// user has not voted.
	GetVote(ctx context.Context, postID, userID int64) (PostVote, bool, error)
}
