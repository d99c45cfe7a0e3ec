package store

import (
	"context"
	"time"
)

// UserScore is the per-user vote ledger, created lazily on first vote.
// VoteScore and CorrectVotes move in lockstep: both increase by exactly one
// per correct vote and never decrease. CorrectVotes <= TotalVotes.
type UserScore struct {
	UserID       int64     `json:"user_id"`
	VoteScore    int64     `json:"vote_score"`
	TotalVotes   int64     `json:"total_votes"`
	CorrectVotes int64     `json:"correct_votes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Accuracy is the percentage of correct votes, 0 when the user never voted.
func (s UserScore) Accuracy() float64 {
	if s.TotalVotes == 0 {
		return 0
	}
	return float64(s.CorrectVotes) / float64(s.TotalVotes) * 100
}

// RankedScore is a ledger joined with the user's nickname for leaderboards.
type RankedScore struct {
	UserScore
	Nickname string `json:"nickname"`
}

// ScoreStore reads the vote ledgers. Ledger mutation happens only inside
// VoteStore.Record, so rank queries here are side-effect-free and retryable.
type ScoreStore interface {
	// GetScore returns the user's ledger; ok is false when the user never
	// voted.
	GetScore(ctx context.Context, userID int64) (UserScore, bool, error)
	// TopRanked returns up to limit users with VoteScore > 0 ordered by
	// (VoteScore desc, CorrectVotes desc, UserID asc).
	TopRanked(ctx context.Context, limit int) ([]RankedScore, error)
	// CountRankedAbove counts ledgers strictly preceding s in that order.
	CountRankedAbove(ctx context.Context, s UserScore) (int64, error)
	// CountRanked counts users with VoteScore > 0.
	CountRanked(ctx context.Context) (int64, error)
}
