package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const postColumns = `id, user_id, title, content, author_type, custom_author_name,
	vote_deadline_at, answer_revealed_at, created_at, updated_at, deleted_at`

func scanPost(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.AuthorType,
		&p.CustomAuthorName, &p.VoteDeadlineAt, &p.AnswerRevealedAt,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	return p, err
}

func (s *Postgres) CreatePost(ctx context.Context, p Post) (Post, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `INSERT INTO posts (user_id, title, content, author_type, custom_author_name, vote_deadline_at)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           RETURNING ` + postColumns
	out, err := scanPost(tx.QueryRow(ctx, q,
		p.UserID, p.Title, p.Content, p.AuthorType, p.CustomAuthorName, p.VoteDeadlineAt))
	if err != nil {
		return Post{}, err
	}

	// Stats row is created eagerly with the post so feed joins always see it.
	if _, err := tx.Exec(ctx,
		`INSERT INTO post_stats (post_id) VALUES ($1) ON CONFLICT (post_id) DO NOTHING`,
		out.ID); err != nil {
		return Post{}, err
	}
	return out, tx.Commit(ctx)
}

func (s *Postgres) GetPost(ctx context.Context, id int64) (Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND deleted_at IS NULL`
	p, err := scanPost(s.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	return p, err
}

func (s *Postgres) UpdatePost(ctx context.Context, id, userID int64, title, content string) (Post, error) {
	const q = `UPDATE posts SET title = $1, content = $2, updated_at = now()
	           WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL
	           RETURNING ` + postColumns
	p, err := scanPost(s.pool.QueryRow(ctx, q, title, content, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, s.ownershipError(ctx, id)
	}
	return p, err
}

func (s *Postgres) SoftDeletePost(ctx context.Context, id, userID int64) error {
	const q = `UPDATE posts SET deleted_at = now()
	           WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	tag, err := s.pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return s.ownershipError(ctx, id)
	}
	return nil
}

func (s *Postgres) RevealAnswer(ctx context.Context, id int64) error {
	const q = `UPDATE posts SET answer_revealed_at = now()
	           WHERE id = $1 AND deleted_at IS NULL AND answer_revealed_at IS NULL`
	tag, err := s.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// Zero rows: either already revealed (fine) or no such live post.
	exists, err := s.livePostExists(ctx, s.pool, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return nil
}

// ownershipError disambiguates a zero-row owner-scoped update: the post is
// either gone or owned by someone else.
func (s *Postgres) ownershipError(ctx context.Context, postID int64) error {
	exists, err := s.livePostExists(ctx, s.pool, postID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrPostNotFound
	}
	return ErrNotOwner
}
