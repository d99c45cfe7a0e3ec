// Package voting records author-guess votes on posts and keeps the
// per-post tallies and per-user score ledgers in lockstep.
package voting

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/community-platform/internal/community/store"
	"github.com/example/community-platform/internal/platform/analytics"
)

var (
	// ErrVotingClosed is returned when the post's vote deadline has passed.
	ErrVotingClosed = errors.New("voting closed")
	// ErrInvalidVoteType is returned for a vote that is neither AI nor HUMAN.
	ErrInvalidVoteType = errors.New("invalid vote type")
)

// Store is the persistence surface the engine needs.
type Store interface {
	store.PostStore
	store.UserStore
	store.VoteStore
	store.StatsStore
	store.ScoreStore
}

// Engine applies the voting rules on top of the store's atomic vote
// transaction. Correctness is decided here, once, and frozen into the
// vote row; the store never recomputes it.
type Engine struct {
	store     Store
	analytics *analytics.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func NewEngine(st Store, an *analytics.Publisher, log *zap.Logger) *Engine {
	return &Engine{store: st, analytics: an, log: log, now: time.Now}
}

// VoteResult is the outcome of a recorded vote: the frozen vote row, the
// post's updated tally, and the voter's new total score.
type VoteResult struct {
	VoteID         int64           `json:"vote_id"`
	VoteType       store.VoteType  `json:"vote_type"`
	IsCorrect      bool            `json:"is_correct"`
	UserTotalScore int64           `json:"user_total_score"`
	PostVoteStats  store.PostStats `json:"post_vote_stats"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ParseVoteType validates a client-supplied vote type string.
func ParseVoteType(s string) (store.VoteType, error) {
	switch store.VoteType(s) {
	case store.VoteAI, store.VoteHuman:
		return store.VoteType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidVoteType, s)
	}
}

// RecordVote checks the voting preconditions in a fixed order: the post
// must be live, its deadline open, and the user must not have voted yet
// and must exist. The check order decides which error a conflicting
// request observes. A concurrent duplicate that slips past the check is
// still caught by the store's uniqueness contract.
func (e *Engine) RecordVote(ctx context.Context, postID, userID int64, voteType store.VoteType) (VoteResult, error) {
	post, err := e.store.GetPost(ctx, postID)
	if err != nil {
		return VoteResult{}, err
	}
	if !post.VotingOpen(e.now()) {
		return VoteResult{}, ErrVotingClosed
	}
	if _, voted, err := e.store.GetVote(ctx, postID, userID); err != nil {
		return VoteResult{}, err
	} else if voted {
		return VoteResult{}, store.ErrDuplicateVote
	}
	if _, err := e.store.GetUser(ctx, userID); err != nil {
		return VoteResult{}, err
	}

	// A post that never declared its author type cannot be guessed
	// correctly, whatever the vote says.
	correct := post.AuthorType != nil && store.VoteType(*post.AuthorType) == voteType

	out, err := e.store.RecordVote(ctx, store.PostVote{
		UserID:   userID,
		PostID:   postID,
		VoteType: voteType,
		Correct:  correct,
	})
	if err != nil {
		return VoteResult{}, err
	}

	e.analytics.Publish(analytics.SubjectVoteRecorded, "vote_recorded",
		strconv.FormatInt(userID, 10), map[string]any{
			"post_id":   postID,
			"vote_type": string(voteType),
			"correct":   correct,
		})
	e.log.Info("vote recorded",
		zap.Int64("post_id", postID),
		zap.Int64("user_id", userID),
		zap.String("vote_type", string(voteType)),
		zap.Bool("correct", correct))

	return VoteResult{
		VoteID:         out.Vote.ID,
		VoteType:       out.Vote.VoteType,
		IsCorrect:      out.Vote.Correct,
		UserTotalScore: out.Score.VoteScore,
		PostVoteStats:  out.Stats,
		CreatedAt:      out.Vote.CreatedAt,
	}, nil
}

// VoteStats is the public tally for a post. AuthorType stays nil until
// the answer has been revealed, regardless of who asks.
type VoteStats struct {
	PostID          int64             `json:"post_id"`
	AiVoteCount     int64             `json:"ai_vote_count"`
	HumanVoteCount  int64             `json:"human_vote_count"`
	TotalVoteCount  int64             `json:"total_vote_count"`
	AiPercentage    float64           `json:"ai_percentage"`
	HumanPercentage float64           `json:"human_percentage"`
	AnswerRevealed  bool              `json:"answer_revealed"`
	AuthorType      *store.AuthorType `json:"author_type,omitempty"`
	VoteDeadlineAt  *time.Time        `json:"vote_deadline_at,omitempty"`
}

// GetVoteStats returns the vote tally for a live post.
func (e *Engine) GetVoteStats(ctx context.Context, postID int64) (VoteStats, error) {
	post, err := e.store.GetPost(ctx, postID)
	if err != nil {
		return VoteStats{}, err
	}
	stats, err := e.store.GetStats(ctx, postID)
	if err != nil {
		return VoteStats{}, err
	}

	vs := VoteStats{
		PostID:         postID,
		AiVoteCount:    stats.AiVoteCount,
		HumanVoteCount: stats.HumanVoteCount,
		TotalVoteCount: stats.TotalVoteCount,
		AnswerRevealed: post.AnswerRevealed(),
		VoteDeadlineAt: post.VoteDeadlineAt,
	}
	if vs.TotalVoteCount > 0 {
		vs.AiPercentage = float64(vs.AiVoteCount) / float64(vs.TotalVoteCount) * 100
		vs.HumanPercentage = float64(vs.HumanVoteCount) / float64(vs.TotalVoteCount) * 100
	}
	if post.AnswerRevealed() {
		vs.AuthorType = post.AuthorType
	}
	return vs, nil
}

// RevealAnswer discloses the post's author type. Revealing twice is a
// no-op.
func (e *Engine) RevealAnswer(ctx context.Context, postID int64) error {
	if err := e.store.RevealAnswer(ctx, postID); err != nil {
		return err
	}
	e.analytics.Publish(analytics.SubjectAnswerRevealed, "answer_revealed", "",
		map[string]any{"post_id": postID})
	return nil
}

// UserVote returns the caller's own vote on a post, if any.
func (e *Engine) UserVote(ctx context.Context, postID, userID int64) (store.PostVote, bool, error) {
	return e.store.GetVote(ctx, postID, userID)
}

// UserVoteScore is a user's ledger with their identity and accuracy
// attached. Users who never voted get a zero ledger, not an error.
type UserVoteScore struct {
	UserID       int64   `json:"user_id"`
	Nickname     string  `json:"nickname"`
	VoteScore    int64   `json:"vote_score"`
	TotalVotes   int64   `json:"total_votes"`
	CorrectVotes int64   `json:"correct_votes"`
	Accuracy     float64 `json:"accuracy"`
}

// GetUserVoteScore returns the user's voting ledger.
func (e *Engine) GetUserVoteScore(ctx context.Context, userID int64) (UserVoteScore, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return UserVoteScore{}, err
	}
	out := UserVoteScore{UserID: user.ID, Nickname: user.Nickname}
	score, ok, err := e.store.GetScore(ctx, userID)
	if err != nil {
		return UserVoteScore{}, err
	}
	if ok {
		out.VoteScore = score.VoteScore
		out.TotalVotes = score.TotalVotes
		out.CorrectVotes = score.CorrectVotes
		out.Accuracy = score.Accuracy()
	}
	return out, nil
}
