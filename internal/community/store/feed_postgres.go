package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// sortColumn maps a sort key to the column used for ordering and bounds.
// Keys are validated upstream, so an unknown key is a programming error.
func sortColumn(key SortKey) (string, error) {
	switch key {
	case SortLatest:
		return "p.id", nil
	case SortLikes:
		return "COALESCE(ps.like_count, 0)", nil
	case SortComments:
		return "COALESCE(ps.reply_count, 0)", nil
	case SortViews:
		return "COALESCE(ps.view_count, 0)", nil
	default:
		return "", fmt.Errorf("unknown sort key %q", key)
	}
}

const summaryColumns = `p.id, p.title, p.content, p.user_id, u.nickname, p.custom_author_name,
	p.created_at, p.updated_at,
	COALESCE(ps.view_count, 0), COALESCE(ps.like_count, 0), COALESCE(ps.reply_count, 0)`

func (s *Postgres) ListSummaries(ctx context.Context, key SortKey, bound *FeedBound, limit int) ([]PostSummary, error) {
	col, err := sortColumn(key)
	if err != nil {
		return nil, err
	}

	q := `SELECT ` + summaryColumns + `
	      FROM posts p
	      JOIN users u ON u.id = p.user_id
	      LEFT JOIN post_stats ps ON ps.post_id = p.id
	      WHERE p.deleted_at IS NULL`
	args := []any{}
	if bound != nil {
		if bound.IDOnly || key == SortLatest {
			q += fmt.Sprintf(" AND p.id < $%d", len(args)+1)
			args = append(args, bound.AnchorID)
		} else {
			q += fmt.Sprintf(" AND (%s < $%d OR (%s = $%d AND p.id < $%d))",
				col, len(args)+1, col, len(args)+2, len(args)+3)
			args = append(args, bound.AnchorValue, bound.AnchorValue, bound.AnchorID)
		}
	}
	q += fmt.Sprintf(" ORDER BY %s DESC, p.id DESC LIMIT $%d", col, len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PostSummary
	for rows.Next() {
		var ps PostSummary
		if err := rows.Scan(&ps.ID, &ps.Title, &ps.Content, &ps.AuthorID, &ps.AuthorName,
			&ps.CustomAuthorName, &ps.CreatedAt, &ps.UpdatedAt,
			&ps.ViewCount, &ps.LikeCount, &ps.ReplyCount); err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *Postgres) SortValue(ctx context.Context, postID int64, key SortKey) (int64, error) {
	if key == SortLatest {
		exists, err := s.livePostExists(ctx, s.pool, postID)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, ErrPostNotFound
		}
		return postID, nil
	}
	col, err := sortColumn(key)
	if err != nil {
		return 0, err
	}
	q := `SELECT ` + col + `
	      FROM posts p
	      LEFT JOIN post_stats ps ON ps.post_id = p.id
	      WHERE p.id = $1 AND p.deleted_at IS NULL`
	var v int64
	if err := s.pool.QueryRow(ctx, q, postID).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrPostNotFound
		}
		return 0, err
	}
	return v, nil
}
