package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Postgres) RecordVote(ctx context.Context, v PostVote) (VoteOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return VoteOutcome{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	exists, err := s.livePostExists(ctx, tx, v.PostID)
	if err != nil {
		return VoteOutcome{}, err
	}
	if !exists {
		return VoteOutcome{}, ErrPostNotFound
	}

	var out VoteOutcome
	out.Vote = v
	err = tx.QueryRow(ctx,
		`INSERT INTO post_votes (user_id, post_id, vote_type, is_correct) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, post_id) DO NOTHING
		 RETURNING id, created_at`,
		v.UserID, v.PostID, v.VoteType, v.Correct).Scan(&out.Vote.ID, &out.Vote.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return VoteOutcome{}, ErrDuplicateVote
	}
	if err != nil {
		return VoteOutcome{}, err
	}

	aiInc, humanInc := 0, 0
	if v.VoteType == VoteAI {
		aiInc = 1
	} else {
		humanInc = 1
	}
	out.Stats, err = scanStats(tx.QueryRow(ctx,
		`INSERT INTO post_stats (post_id, ai_vote_count, human_vote_count, total_vote_count)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (post_id) DO UPDATE SET
		   ai_vote_count = post_stats.ai_vote_count + $2,
		   human_vote_count = post_stats.human_vote_count + $3,
		   total_vote_count = post_stats.total_vote_count + 1
		 RETURNING `+statsColumns,
		v.PostID, aiInc, humanInc))
	if err != nil {
		return VoteOutcome{}, err
	}

	scoreInc := 0
	if v.Correct {
		scoreInc = 1
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO user_scores (user_id, vote_score, total_votes, correct_votes)
		 VALUES ($1, $2, 1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET
		   vote_score = user_scores.vote_score + $2,
		   total_votes = user_scores.total_votes + 1,
		   correct_votes = user_scores.correct_votes + $2,
		   updated_at = now()
		 RETURNING user_id, vote_score, total_votes, correct_votes, created_at, updated_at`,
		v.UserID, scoreInc).Scan(&out.Score.UserID, &out.Score.VoteScore, &out.Score.TotalVotes,
		&out.Score.CorrectVotes, &out.Score.CreatedAt, &out.Score.UpdatedAt)
	if err != nil {
		return VoteOutcome{}, err
	}
	return out, tx.Commit(ctx)
}

func (s *Postgres) GetVote(ctx context.Context, postID, userID int64) (PostVote, bool, error) {
	const q = `SELECT id, user_id, post_id, vote_type, is_correct, created_at
	           FROM post_votes WHERE post_id = $1 AND user_id = $2`
	var v PostVote
	err := s.pool.QueryRow(ctx, q, postID, userID).
		Scan(&v.ID, &v.UserID, &v.PostID, &v.VoteType, &v.Correct, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PostVote{}, false, nil
	}
	if err != nil {
		return PostVote{}, false, err
	}
	return v, true, nil
}
