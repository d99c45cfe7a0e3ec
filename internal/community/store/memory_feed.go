package store

import (
	"context"
	"sort"
)

// FeedSource

func (m *Memory) ListSummaries(_ context.Context, key SortKey, bound *FeedBound, limit int) ([]PostSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []PostSummary
	for _, p := range m.posts {
		if p.DeletedAt != nil {
			continue
		}
		s := m.summaryLocked(p)
		if bound != nil && !afterBound(s, key, *bound) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		vi, vj := out[i].SortValue(key), out[j].SortValue(key)
		if vi != vj {
			return vi > vj
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) SortValue(_ context.Context, postID int64, key SortKey) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.livePost(postID)
	if !ok {
		return 0, ErrPostNotFound
	}
	return m.summaryLocked(p).SortValue(key), nil
}

// summaryLocked builds the feed projection for a live post.
// Caller must hold mu.
func (m *Memory) summaryLocked(p Post) PostSummary {
	s := m.stats[p.ID]
	return PostSummary{
		ID:               p.ID,
		Title:            p.Title,
		Content:          p.Content,
		AuthorID:         p.UserID,
		AuthorName:       m.users[p.UserID].Nickname,
		CustomAuthorName: p.CustomAuthorName,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		ViewCount:        s.ViewCount,
		LikeCount:        s.LikeCount,
		ReplyCount:       s.ReplyCount,
	}
}

// afterBound reports whether s sorts strictly after the anchor in
// (value desc, id desc) order.
func afterBound(s PostSummary, key SortKey, b FeedBound) bool {
	if b.IDOnly || key == SortLatest {
		return s.ID < b.AnchorID
	}
	v := s.SortValue(key)
	return v < b.AnchorValue || (v == b.AnchorValue && s.ID < b.AnchorID)
}
