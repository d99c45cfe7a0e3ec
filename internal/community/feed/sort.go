// Package feed turns mutable post counters into stable cursor-paginated
// listings. Sort order is resolved once per request and baked into the
// cursor, so successive pages of one listing never mix orderings.
package feed

import (
	"errors"
	"strings"

	"github.com/example/community-platform/internal/community/store"
)

var (
	ErrUnsupportedSort = errors.New("unsupported sort type")
	ErrInvalidCursor   = errors.New("invalid cursor")
)

// ParseSortMode resolves a client-supplied sort string to a sort key.
// Matching is case-insensitive and accepts singular/plural aliases; an
// empty string means newest first. Unknown values are rejected rather
// than coerced so a typo never silently reorders a feed.
func ParseSortMode(s string) (store.SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest", "recent":
		return store.SortLatest, nil
	case "likes", "like":
		return store.SortLikes, nil
	case "comments", "comment", "replies", "reply":
		return store.SortComments, nil
	case "views":
		return store.SortViews, nil
	default:
		return "", ErrUnsupportedSort
	}
}
