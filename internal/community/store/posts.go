package store

import (
	"context"
	"time"
)

// AuthorType is the true origin of a post's content, declared at creation.
type AuthorType string

const (
	AuthorAI    AuthorType = "AI"
	AuthorHuman AuthorType = "HUMAN"
)

// Post represents a single post row. A post with DeletedAt set is
// tombstoned: it stays in storage but is excluded from reads.
type Post struct {
	ID               int64      `json:"id"`
	UserID           int64      `json:"user_id"`
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	AuthorType       *AuthorType `json:"author_type,omitempty"`
	CustomAuthorName *string    `json:"custom_author_name,omitempty"`
	VoteDeadlineAt   *time.Time `json:"vote_deadline_at,omitempty"`
	AnswerRevealedAt *time.Time `json:"answer_revealed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
}

// AnswerRevealed reports whether the post's author type may be disclosed.
func (p Post) AnswerRevealed() bool {
	return p.AnswerRevealedAt != nil
}

// VotingOpen reports whether votes are still accepted at the given instant.
// A post without a deadline accepts votes indefinitely.
func (p Post) VotingOpen(now time.Time) bool {
	return p.VoteDeadlineAt == nil || now.Before(*p.VoteDeadlineAt)
}

// PostSummary is the feed projection: post identity joined with its
// aggregate counters. Counters are zero for posts without a stats row.
type PostSummary struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	AuthorID         int64     `json:"author_id"`
	AuthorName       string    `json:"author_name"`
	CustomAuthorName *string   `json:"custom_author_name,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	ViewCount        int64     `json:"view_count"`
	LikeCount        int64     `json:"like_count"`
	ReplyCount       int64     `json:"reply_count"`
}

// SortKey identifies the feed ordering column. The key doubles as the
// cursor mode tag, so its values are stable strings.
type SortKey string

const (
	SortLatest   SortKey = "latest"
	SortLikes    SortKey = "likes"
	SortComments SortKey = "comments"
	SortViews    SortKey = "views"
)

// SortValue extracts the summary's value for the given key. For SortLatest
// the post id itself is the ordering key.
func (s PostSummary) SortValue(key SortKey) int64 {
	switch key {
	case SortLikes:
		return s.LikeCount
	case SortComments:
		return s.ReplyCount
	case SortViews:
		return s.ViewCount
	default:
		return s.ID
	}
}

// FeedBound is an exclusive upper bound for keyset listing: rows strictly
// after the anchor in (value desc, id desc) order. When IDOnly is set only
// id < AnchorID applies, regardless of the sort key.
type FeedBound struct {
	AnchorID    int64
	AnchorValue int64
	IDOnly      bool
}

// PostStore defines the contract for post persistence. All reads exclude
// tombstoned posts.
type PostStore interface {
	CreatePost(ctx context.Context, p Post) (Post, error)
	GetPost(ctx context.Context, id int64) (Post, error)
	UpdatePost(ctx context.Context, id, userID int64, title, content string) (Post, error)
	SoftDeletePost(ctx context.Context, id, userID int64) error
	// RevealAnswer sets the reveal timestamp if unset; calling it again is
	// a no-op, never an error.
	RevealAnswer(ctx context.Context, id int64) error
}

// FeedSource is the query surface the keyset paginator reads from.
type FeedSource interface {
	// ListSummaries returns up to limit live posts ordered by
	// (sort value desc, id desc), strictly after bound when non-nil.
	ListSummaries(ctx context.Context, key SortKey, bound *FeedBound, limit int) ([]PostSummary, error)
	// SortValue resolves the current sort value of a live post, or
	// ErrPostNotFound when the post is absent or tombstoned.
	SortValue(ctx context.Context, postID int64, key SortKey) (int64, error)
}
