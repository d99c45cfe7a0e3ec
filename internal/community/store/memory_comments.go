package store

import (
	"context"
	"sort"
	"time"
)

// CommentStore

func (m *Memory) AddComment(_ context.Context, c Comment) (Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.statsLocked(c.PostID)
	if err != nil {
		return Comment{}, err
	}

	m.nextCommentID++
	c.ID = m.nextCommentID
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = nil
	c.DeletedAt = nil
	m.comments[c.ID] = c

	s.ReplyCount++
	m.stats[c.PostID] = s
	return c, nil
}

func (m *Memory) ListComments(_ context.Context, postID int64, limit int, beforeID int64) ([]Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.livePost(postID); !ok {
		return nil, ErrPostNotFound
	}

	var out []Comment
	for _, c := range m.comments {
		if c.PostID != postID || c.DeletedAt != nil {
			continue
		}
		if beforeID > 0 && c.ID >= beforeID {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) UpdateComment(_ context.Context, commentID, userID int64, content string) (Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[commentID]
	if !ok || c.DeletedAt != nil {
		return Comment{}, ErrCommentNotFound
	}
	if c.UserID != userID {
		return Comment{}, ErrNotOwner
	}
	c.Content = content
	now := time.Now().UTC()
	c.UpdatedAt = &now
	m.comments[commentID] = c
	return c, nil
}

func (m *Memory) SoftDeleteComment(_ context.Context, commentID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[commentID]
	if !ok || c.DeletedAt != nil {
		return ErrCommentNotFound
	}
	if c.UserID != userID {
		return ErrNotOwner
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	m.comments[commentID] = c

	if s, ok := m.stats[c.PostID]; ok && s.ReplyCount > 0 {
		s.ReplyCount--
		m.stats[c.PostID] = s
	}
	return nil
}
