package store

import (
	"context"
	"time"
)

// User carries the minimum identity this service needs: votes reference the
// voter, and leaderboards display nicknames. Account management lives in a
// separate service.
type User struct {
	ID        int64     `json:"id"`
	Nickname  string    `json:"nickname"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	// GetUser returns ErrUserNotFound when the user is absent.
	GetUser(ctx context.Context, id int64) (User, error)
}
