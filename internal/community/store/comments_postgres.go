package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const commentColumns = `id, post_id, user_id, content, created_at, updated_at, deleted_at`

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	return c, err
}

func (s *Postgres) AddComment(ctx context.Context, c Comment) (Comment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Comment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	exists, err := s.livePostExists(ctx, tx, c.PostID)
	if err != nil {
		return Comment{}, err
	}
	if !exists {
		return Comment{}, ErrPostNotFound
	}

	const q = `INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3)
	           RETURNING ` + commentColumns
	out, err := scanComment(tx.QueryRow(ctx, q, c.PostID, c.UserID, c.Content))
	if err != nil {
		return Comment{}, err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO post_stats (post_id, reply_count) VALUES ($1, 1)
		 ON CONFLICT (post_id) DO UPDATE SET reply_count = post_stats.reply_count + 1`,
		c.PostID); err != nil {
		return Comment{}, err
	}
	return out, tx.Commit(ctx)
}

func (s *Postgres) ListComments(ctx context.Context, postID int64, limit int, beforeID int64) ([]Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments
	      WHERE post_id = $1 AND deleted_at IS NULL`
	args := []any{postID}
	if beforeID > 0 {
		q += fmt.Sprintf(" AND id < $%d", len(args)+1)
		args = append(args, beforeID)
	}
	q += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) UpdateComment(ctx context.Context, id, userID int64, content string) (Comment, error) {
	const q = `UPDATE comments SET content = $1, updated_at = now()
	           WHERE id = $2 AND user_id = $3 AND deleted_at IS NULL
	           RETURNING ` + commentColumns
	c, err := scanComment(s.pool.QueryRow(ctx, q, content, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, s.commentOwnershipError(ctx, id)
	}
	return c, err
}

func (s *Postgres) SoftDeleteComment(ctx context.Context, id, userID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var postID int64
	err = tx.QueryRow(ctx,
		`UPDATE comments SET deleted_at = now()
		 WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
		 RETURNING post_id`, id, userID).Scan(&postID)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.commentOwnershipError(ctx, id)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE post_stats SET reply_count = GREATEST(reply_count - 1, 0) WHERE post_id = $1`,
		postID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Postgres) commentOwnershipError(ctx context.Context, id int64) error {
	const q = `SELECT EXISTS (SELECT 1 FROM comments WHERE id = $1 AND deleted_at IS NULL)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrCommentNotFound
	}
	return ErrNotOwner
}
