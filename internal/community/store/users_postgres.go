package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Postgres) CreateUser(ctx context.Context, u User) (User, error) {
	const q = `INSERT INTO users (nickname, email) VALUES ($1, $2)
	           RETURNING id, nickname, email, created_at`
	var out User
	err := s.pool.QueryRow(ctx, q, u.Nickname, u.Email).
		Scan(&out.ID, &out.Nickname, &out.Email, &out.CreatedAt)
	return out, err
}

func (s *Postgres) GetUser(ctx context.Context, id int64) (User, error) {
	const q = `SELECT id, nickname, email, created_at FROM users WHERE id = $1`
	var u User
	err := s.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Nickname, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}
