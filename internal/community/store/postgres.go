package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so helpers can run
// inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the production implementation of every store interface,
// backed by a single pgx pool. Counter updates are single-statement atomic
// upserts; multi-row units of work run in one transaction.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id         BIGSERIAL PRIMARY KEY,
    nickname   VARCHAR(50)  NOT NULL,
    email      VARCHAR(100) UNIQUE,
    created_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS posts (
    id                 BIGSERIAL PRIMARY KEY,
    user_id            BIGINT       NOT NULL REFERENCES users(id),
    title              VARCHAR(150) NOT NULL,
    content            TEXT         NOT NULL,
    author_type        VARCHAR(10),
    custom_author_name VARCHAR(100),
    vote_deadline_at   TIMESTAMPTZ,
    answer_revealed_at TIMESTAMPTZ,
    created_at         TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at         TIMESTAMPTZ  NOT NULL DEFAULT now(),
    deleted_at         TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS post_stats (
    post_id          BIGINT PRIMARY KEY REFERENCES posts(id),
    view_count       BIGINT NOT NULL DEFAULT 0,
    like_count       BIGINT NOT NULL DEFAULT 0,
    reply_count      BIGINT NOT NULL DEFAULT 0,
    ai_vote_count    BIGINT NOT NULL DEFAULT 0,
    human_vote_count BIGINT NOT NULL DEFAULT 0,
    total_vote_count BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS post_likes (
    post_id    BIGINT      NOT NULL REFERENCES posts(id),
    user_id    BIGINT      NOT NULL REFERENCES users(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (post_id, user_id)
);

CREATE TABLE IF NOT EXISTS comments (
    id         BIGSERIAL PRIMARY KEY,
    post_id    BIGINT       NOT NULL REFERENCES posts(id),
    user_id    BIGINT       NOT NULL REFERENCES users(id),
    content    VARCHAR(150) NOT NULL,
    created_at TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ,
    deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS post_votes (
    id         BIGSERIAL PRIMARY KEY,
    post_id    BIGINT      NOT NULL REFERENCES posts(id),
    user_id    BIGINT      NOT NULL REFERENCES users(id),
    vote_type  VARCHAR(10) NOT NULL,
    is_correct BOOLEAN     NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    CONSTRAINT unique_user_post_vote UNIQUE (user_id, post_id)
);

CREATE TABLE IF NOT EXISTS user_scores (
    user_id       BIGINT      PRIMARY KEY REFERENCES users(id),
    vote_score    BIGINT      NOT NULL DEFAULT 0,
    total_votes   BIGINT      NOT NULL DEFAULT 0,
    correct_votes BIGINT      NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_posts_live        ON posts (id DESC) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_comments_post     ON comments (post_id, id DESC);
CREATE INDEX IF NOT EXISTS idx_post_votes_post   ON post_votes (post_id);
CREATE INDEX IF NOT EXISTS idx_user_scores_rank  ON user_scores (vote_score DESC, correct_votes DESC, user_id ASC);
`

// Bootstrap creates the tables and indexes if they do not exist yet.
func (s *Postgres) Bootstrap(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// livePostExists reports whether the post exists and is not tombstoned.
func (s *Postgres) livePostExists(ctx context.Context, q querier, postID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1 AND deleted_at IS NULL)`,
		postID).Scan(&exists)
	return exists, err
}
