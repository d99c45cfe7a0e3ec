// Package store defines the persistence contracts for the community
// service and ships two backends: Postgres for production and an
// in-memory implementation for development and tests.
package store

// Store is the full persistence surface. Both backends implement it.
type Store interface {
	UserStore
	PostStore
	FeedSource
	StatsStore
	LikeStore
	CommentStore
	VoteStore
	ScoreStore
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Postgres)(nil)
)
