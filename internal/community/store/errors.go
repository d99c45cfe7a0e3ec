package store

import "errors"

// Sentinel errors shared by every store backend.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("not the author")
	ErrDuplicateVote   = errors.New("user already voted on this post")
)
