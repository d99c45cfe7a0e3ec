package feed

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/community-platform/internal/community/store"
)

// seedPosts creates an author, n posts, and enough extra users to apply
// the requested like counts. Post ids are assigned in creation order.
func seedPosts(t *testing.T, likes []int) (*store.Memory, []store.Post) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	author, err := mem.CreateUser(ctx, store.User{Nickname: "author", Email: "author@example.com"})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}

	maxLikes := 0
	for _, n := range likes {
		if n > maxLikes {
			maxLikes = n
		}
	}
	voters := make([]int64, 0, maxLikes)
	for i := 0; i < maxLikes; i++ {
		u, err := mem.CreateUser(ctx, store.User{
			Nickname: fmt.Sprintf("voter-%d", i),
			Email:    fmt.Sprintf("voter-%d@example.com", i),
		})
		if err != nil {
			t.Fatalf("create voter: %v", err)
		}
		voters = append(voters, u.ID)
	}

	posts := make([]store.Post, 0, len(likes))
	for i, n := range likes {
		p, err := mem.CreatePost(ctx, store.Post{
			UserID:  author.ID,
			Title:   fmt.Sprintf("post %d", i+1),
			Content: "body",
		})
		if err != nil {
			t.Fatalf("create post: %v", err)
		}
		for j := 0; j < n; j++ {
			if _, err := mem.Like(ctx, p.ID, voters[j]); err != nil {
				t.Fatalf("like post %d: %v", p.ID, err)
			}
		}
		posts = append(posts, p)
	}
	return mem, posts
}

func ids(posts []store.PostSummary) []int64 {
	out := make([]int64, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a []int64, b ...int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListByLikesWithTieBreak(t *testing.T) {
	ctx := context.Background()
	mem, _ := seedPosts(t, []int{5, 5, 2})
	p := NewPaginator(mem)

	// Two posts tie at 5 likes; the newer id wins.
	page, err := p.List(ctx, store.SortLikes, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if !equalIDs(ids(page.Posts), 2, 1) {
		t.Fatalf("first page = %v, want [2 1]", ids(page.Posts))
	}
	if !page.HasNext {
		t.Fatal("first page should have a next page")
	}

	page2, err := p.List(ctx, store.SortLikes, page.NextCursor, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if !equalIDs(ids(page2.Posts), 3) {
		t.Fatalf("second page = %v, want [3]", ids(page2.Posts))
	}
	if page2.HasNext {
		t.Error("second page should be the last")
	}
	if page2.NextCursor == "" {
		t.Fatal("final page should still mint a resume cursor")
	}

	// Resuming past the end yields an empty page.
	page3, err := p.List(ctx, store.SortLikes, page2.NextCursor, 2)
	if err != nil {
		t.Fatalf("third page: %v", err)
	}
	if len(page3.Posts) != 0 || page3.HasNext {
		t.Errorf("page past the end = %v hasNext=%v, want empty", ids(page3.Posts), page3.HasNext)
	}
	if page3.NextCursor != "" {
		t.Errorf("empty page cursor = %q, want empty", page3.NextCursor)
	}
}

func TestListLatestOrder(t *testing.T) {
	ctx := context.Background()
	mem, _ := seedPosts(t, []int{0, 0, 0, 0})
	p := NewPaginator(mem)

	page, err := p.List(ctx, store.SortLatest, "", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !equalIDs(ids(page.Posts), 4, 3, 2) {
		t.Fatalf("page = %v, want [4 3 2]", ids(page.Posts))
	}
	page2, err := p.List(ctx, store.SortLatest, page.NextCursor, 3)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if !equalIDs(ids(page2.Posts), 1) {
		t.Fatalf("second page = %v, want [1]", ids(page2.Posts))
	}
}

func TestChainedPagesNeverRepeat(t *testing.T) {
	ctx := context.Background()
	mem, _ := seedPosts(t, []int{3, 1, 4, 1, 5, 2, 0})
	p := NewPaginator(mem)

	seen := map[int64]bool{}
	cursor := ""
	for pages := 0; pages < 10; pages++ {
		page, err := p.List(ctx, store.SortLikes, cursor, 2)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		for _, id := range ids(page.Posts) {
			if seen[id] {
				t.Fatalf("post %d served twice", id)
			}
			seen[id] = true
		}
		if !page.HasNext {
			break
		}
		cursor = page.NextCursor
	}
	if len(seen) != 7 {
		t.Fatalf("served %d posts, want 7", len(seen))
	}
}

func TestDeletedAnchorFallsBackToID(t *testing.T) {
	ctx := context.Background()
	mem, posts := seedPosts(t, []int{2, 3, 4, 5})
	p := NewPaginator(mem)

	page, err := p.List(ctx, store.SortLikes, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	// Order by likes is [4 3 2 1]; anchor after the first page is post 3.
	if !equalIDs(ids(page.Posts), 4, 3) {
		t.Fatalf("first page = %v, want [4 3]", ids(page.Posts))
	}

	if err := mem.SoftDeletePost(ctx, posts[2].ID, posts[2].UserID); err != nil {
		t.Fatalf("delete anchor: %v", err)
	}

	// The anchor's likes can no longer be resolved; the bound degrades
	// to id < 3 and the page still arrives in like order without error.
	page2, err := p.List(ctx, store.SortLikes, page.NextCursor, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if !equalIDs(ids(page2.Posts), 2, 1) {
		t.Fatalf("second page = %v, want [2 1]", ids(page2.Posts))
	}
}

func TestCounterMovementBetweenPages(t *testing.T) {
	ctx := context.Background()
	mem, posts := seedPosts(t, []int{5, 4, 3})
	p := NewPaginator(mem)

	page, err := p.List(ctx, store.SortLikes, "", 1)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	if !equalIDs(ids(page.Posts), 1) {
		t.Fatalf("first page = %v, want [1]", ids(page.Posts))
	}

	// The anchor gains likes after the cursor was minted; the paginator
	// re-reads the current value, so the next page still follows it.
	extra, err := mem.CreateUser(ctx, store.User{Nickname: "late", Email: "late@example.com"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := mem.Like(ctx, posts[0].ID, extra.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	page2, err := p.List(ctx, store.SortLikes, page.NextCursor, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if !equalIDs(ids(page2.Posts), 2, 3) {
		t.Fatalf("second page = %v, want [2 3]", ids(page2.Posts))
	}
}

func TestListRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	mem, _ := seedPosts(t, []int{1})
	p := NewPaginator(mem)

	if _, err := p.List(ctx, store.SortLikes, "", 0); err == nil {
		t.Error("size 0 should be rejected")
	}
	if _, err := p.List(ctx, store.SortLikes, "%%%", 2); err != ErrInvalidCursor {
		t.Errorf("bad cursor err = %v, want ErrInvalidCursor", err)
	}
	wrongKey := Cursor{Key: store.SortViews, AnchorID: 1, AnchorValue: 0}.Encode()
	if _, err := p.List(ctx, store.SortLikes, wrongKey, 2); err != ErrInvalidCursor {
		t.Errorf("mismatched cursor err = %v, want ErrInvalidCursor", err)
	}
}

func TestClampSize(t *testing.T) {
	cases := []struct{ in, want int }{
		{-1, DefaultPageSize},
		{0, DefaultPageSize},
		{1, 1},
		{50, 50},
		{51, MaxPageSize},
	}
	for _, tc := range cases {
		if got := ClampSize(tc.in); got != tc.want {
			t.Errorf("ClampSize(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
