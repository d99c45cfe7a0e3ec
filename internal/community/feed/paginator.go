package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/community-platform/internal/community/store"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// Page is one slice of a listing plus the token for the next one.
type Page struct {
	Posts      []store.PostSummary
	NextCursor string
	HasNext    bool
}

// Paginator serves keyset pages over a feed source. Counters under the
// sort column may move between requests; pages stay duplicate-free
// because every bound compares the id as a tiebreaker.
type Paginator struct {
	src store.FeedSource
}

func NewPaginator(src store.FeedSource) *Paginator {
	return &Paginator{src: src}
}

// ClampSize normalizes a requested page size: non-positive falls back
// to the default, oversized requests are capped.
func ClampSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// List returns one page ordered by (sort value desc, id desc). An empty
// cursor starts from the top. A cursor whose anchor post has since been
// deleted still works: the bound degrades to the anchor id alone, which
// keeps the page duplicate-free at the cost of possibly skipping rows
// that moved past the anchor.
func (p *Paginator) List(ctx context.Context, key store.SortKey, cursor string, size int) (Page, error) {
	if size < 1 {
		return Page{}, fmt.Errorf("page size must be positive, got %d", size)
	}

	var bound *store.FeedBound
	if cursor != "" {
		c, err := DecodeCursor(cursor, key)
		if err != nil {
			return Page{}, err
		}
		bound, err = p.resolveBound(ctx, c, key)
		if err != nil {
			return Page{}, err
		}
	}

	rows, err := p.src.ListSummaries(ctx, key, bound, size+1)
	if err != nil {
		return Page{}, err
	}

	page := Page{Posts: rows}
	if len(rows) > size {
		page.Posts = rows[:size]
		page.HasNext = true
	}
	// The cursor is minted even on the final page so a client can resume
	// from its last known row after new posts arrive.
	if len(page.Posts) > 0 {
		last := page.Posts[len(page.Posts)-1]
		page.NextCursor = Cursor{
			Key:         key,
			AnchorID:    last.ID,
			AnchorValue: last.SortValue(key),
		}.Encode()
	}
	return page, nil
}

// resolveBound re-reads the anchor's current sort value so the bound
// reflects counter movement since the cursor was minted. A vanished
// anchor degrades to a plain id bound instead of failing the page.
func (p *Paginator) resolveBound(ctx context.Context, c Cursor, key store.SortKey) (*store.FeedBound, error) {
	v, err := p.src.SortValue(ctx, c.AnchorID, key)
	if errors.Is(err, store.ErrPostNotFound) {
		return &store.FeedBound{AnchorID: c.AnchorID, IDOnly: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &store.FeedBound{AnchorID: c.AnchorID, AnchorValue: v}, nil
}
