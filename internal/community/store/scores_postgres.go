package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const scoreColumns = `user_id, vote_score, total_votes, correct_votes, created_at, updated_at`

func (s *Postgres) GetScore(ctx context.Context, userID int64) (UserScore, bool, error) {
	const q = `SELECT ` + scoreColumns + ` FROM user_scores WHERE user_id = $1`
	var sc UserScore
	err := s.pool.QueryRow(ctx, q, userID).Scan(&sc.UserID, &sc.VoteScore,
		&sc.TotalVotes, &sc.CorrectVotes, &sc.CreatedAt, &sc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserScore{}, false, nil
	}
	if err != nil {
		return UserScore{}, false, err
	}
	return sc, true, nil
}

func (s *Postgres) TopRanked(ctx context.Context, limit int) ([]RankedScore, error) {
	const q = `SELECT us.user_id, us.vote_score, us.total_votes, us.correct_votes,
	                  us.created_at, us.updated_at, u.nickname
	           FROM user_scores us
	           JOIN users u ON u.id = us.user_id
	           WHERE us.vote_score > 0
	           ORDER BY us.vote_score DESC, us.correct_votes DESC, us.user_id ASC
	           LIMIT $1`
	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RankedScore
	for rows.Next() {
		var rs RankedScore
		if err := rows.Scan(&rs.UserID, &rs.VoteScore, &rs.TotalVotes, &rs.CorrectVotes,
			&rs.CreatedAt, &rs.UpdatedAt, &rs.Nickname); err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (s *Postgres) CountRankedAbove(ctx context.Context, sc UserScore) (int64, error) {
	const q = `SELECT COUNT(*) FROM user_scores
	           WHERE vote_score > 0
	             AND (vote_score > $1
	              OR (vote_score = $1 AND correct_votes > $2)
	              OR (vote_score = $1 AND correct_votes = $2 AND user_id < $3))`
	var n int64
	err := s.pool.QueryRow(ctx, q, sc.VoteScore, sc.CorrectVotes, sc.UserID).Scan(&n)
	return n, err
}

func (s *Postgres) CountRanked(ctx context.Context) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM user_scores WHERE vote_score > 0`).Scan(&n)
	return n, err
}
