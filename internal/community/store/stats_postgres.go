package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const statsColumns = `post_id, view_count, like_count, reply_count,
	ai_vote_count, human_vote_count, total_vote_count`

func scanStats(row pgx.Row) (PostStats, error) {
	var st PostStats
	err := row.Scan(&st.PostID, &st.ViewCount, &st.LikeCount, &st.ReplyCount,
		&st.AiVoteCount, &st.HumanVoteCount, &st.TotalVoteCount)
	return st, err
}

func (s *Postgres) GetStats(ctx context.Context, postID int64) (PostStats, error) {
	const q = `SELECT ` + statsColumns + ` FROM post_stats WHERE post_id = $1`
	st, err := scanStats(s.pool.QueryRow(ctx, q, postID))
	if errors.Is(err, pgx.ErrNoRows) {
		exists, eerr := s.livePostExists(ctx, s.pool, postID)
		if eerr != nil {
			return PostStats{}, eerr
		}
		if !exists {
			return PostStats{}, ErrPostNotFound
		}
		return PostStats{PostID: postID}, nil
	}
	return st, err
}

func (s *Postgres) IncrementView(ctx context.Context, postID int64) (PostStats, error) {
	exists, err := s.livePostExists(ctx, s.pool, postID)
	if err != nil {
		return PostStats{}, err
	}
	if !exists {
		return PostStats{}, ErrPostNotFound
	}
	const q = `INSERT INTO post_stats (post_id, view_count) VALUES ($1, 1)
	           ON CONFLICT (post_id) DO UPDATE SET view_count = post_stats.view_count + 1
	           RETURNING ` + statsColumns
	return scanStats(s.pool.QueryRow(ctx, q, postID))
}
