// Package ranking answers leaderboard queries over the vote ledgers.
// Ranks are computed per request from the current ledgers and never
// cached, so they are always consistent with the ordering the store
// enforces: vote score desc, correct votes desc, user id asc.
package ranking

import (
	"context"

	"github.com/example/community-platform/internal/community/store"
)

const (
	DefaultLeaderboardSize = 10
	MaxLeaderboardSize     = 100
)

// Calculator computes ranks from the score store.
type Calculator struct {
	scores store.ScoreStore
	users  store.UserStore
}

func NewCalculator(scores store.ScoreStore, users store.UserStore) *Calculator {
	return &Calculator{scores: scores, users: users}
}

// Entry is one leaderboard row.
type Entry struct {
	Rank         int64   `json:"rank"`
	UserID       int64   `json:"user_id"`
	Nickname     string  `json:"nickname"`
	VoteScore    int64   `json:"vote_score"`
	TotalVotes   int64   `json:"total_votes"`
	CorrectVotes int64   `json:"correct_votes"`
	Accuracy     float64 `json:"accuracy"`
}

// Leaderboard is the top entries plus the caller's own rank, when the
// caller has a positive score.
type Leaderboard struct {
	Rankings   []Entry `json:"rankings"`
	TotalUsers int64   `json:"total_users"`
	MyRanking  *Entry  `json:"my_ranking,omitempty"`
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardSize
	}
	if limit > MaxLeaderboardSize {
		return MaxLeaderboardSize
	}
	return limit
}

func entry(rank int64, s store.UserScore, nickname string) Entry {
	return Entry{
		Rank:         rank,
		UserID:       s.UserID,
		Nickname:     nickname,
		VoteScore:    s.VoteScore,
		TotalVotes:   s.TotalVotes,
		CorrectVotes: s.CorrectVotes,
		Accuracy:     s.Accuracy(),
	}
}

// Rank returns a user's position among all users with a positive score,
// or 0 when the user has no positive score and is therefore unranked.
func (c *Calculator) Rank(ctx context.Context, userID int64) (int64, error) {
	s, ok, err := c.scores.GetScore(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !ok || s.VoteScore <= 0 {
		return 0, nil
	}
	above, err := c.scores.CountRankedAbove(ctx, s)
	if err != nil {
		return 0, err
	}
	return above + 1, nil
}

// TopRankings builds the leaderboard. Positions are assigned by list
// order starting at 1. Pass currentUserID = 0 for an anonymous caller;
// a ranked caller additionally gets their own entry, computed against
// the full ledger set rather than read off the truncated list.
func (c *Calculator) TopRankings(ctx context.Context, limit int, currentUserID int64) (Leaderboard, error) {
	top, err := c.scores.TopRanked(ctx, clampLimit(limit))
	if err != nil {
		return Leaderboard{}, err
	}

	lb := Leaderboard{Rankings: make([]Entry, 0, len(top))}
	for i, rs := range top {
		lb.Rankings = append(lb.Rankings, entry(int64(i+1), rs.UserScore, rs.Nickname))
	}

	lb.TotalUsers, err = c.scores.CountRanked(ctx)
	if err != nil {
		return Leaderboard{}, err
	}

	if currentUserID > 0 {
		s, ok, err := c.scores.GetScore(ctx, currentUserID)
		if err != nil {
			return Leaderboard{}, err
		}
		if ok && s.VoteScore > 0 {
			above, err := c.scores.CountRankedAbove(ctx, s)
			if err != nil {
				return Leaderboard{}, err
			}
			u, err := c.users.GetUser(ctx, currentUserID)
			if err != nil {
				return Leaderboard{}, err
			}
			mine := entry(above+1, s, u.Nickname)
			lb.MyRanking = &mine
		}
	}
	return lb, nil
}
