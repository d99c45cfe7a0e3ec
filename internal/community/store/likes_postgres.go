package store

import "context"

func (s *Postgres) Like(ctx context.Context, postID, userID int64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	exists, err := s.livePostExists(ctx, tx, postID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrPostNotFound
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
		 ON CONFLICT (post_id, user_id) DO NOTHING`, postID, userID)
	if err != nil {
		return 0, err
	}

	var count int64
	if tag.RowsAffected() > 0 {
		err = tx.QueryRow(ctx,
			`INSERT INTO post_stats (post_id, like_count) VALUES ($1, 1)
			 ON CONFLICT (post_id) DO UPDATE SET like_count = post_stats.like_count + 1
			 RETURNING like_count`, postID).Scan(&count)
	} else {
		// Repeat like leaves the counter untouched.
		err = tx.QueryRow(ctx,
			`SELECT COALESCE((SELECT like_count FROM post_stats WHERE post_id = $1), 0)`, postID).
			Scan(&count)
	}
	if err != nil {
		return 0, err
	}
	return count, tx.Commit(ctx)
}

func (s *Postgres) Unlike(ctx context.Context, postID, userID int64) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	exists, err := s.livePostExists(ctx, tx, postID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrPostNotFound
	}

	tag, err := tx.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return 0, err
	}

	var count int64
	if tag.RowsAffected() > 0 {
		err = tx.QueryRow(ctx,
			`UPDATE post_stats SET like_count = GREATEST(like_count - 1, 0)
			 WHERE post_id = $1 RETURNING like_count`, postID).Scan(&count)
	} else {
		err = tx.QueryRow(ctx,
			`SELECT COALESCE((SELECT like_count FROM post_stats WHERE post_id = $1), 0)`, postID).
			Scan(&count)
	}
	if err != nil {
		return 0, err
	}
	return count, tx.Commit(ctx)
}

func (s *Postgres) IsLiked(ctx context.Context, postID, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`
	var liked bool
	err := s.pool.QueryRow(ctx, q, postID, userID).Scan(&liked)
	return liked, err
}
