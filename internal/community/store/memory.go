package store

import (
	"context"
	"sync"
	"time"
)

// Memory is a development-only in-memory implementation of every store
// interface. One mutex guards all state, which is what makes the vote
// transaction all-or-nothing here.
type Memory struct {
	mu sync.Mutex

	users    map[int64]User
	posts    map[int64]Post
	stats    map[int64]PostStats
	likes    map[int64]map[int64]struct{} // postID -> userID
	comments map[int64]Comment
	votes    map[int64]PostVote
	voteIdx  map[voteKey]int64 // (postID, userID) -> voteID
	scores   map[int64]UserScore

	nextUserID    int64
	nextPostID    int64
	nextCommentID int64
	nextVoteID    int64
}

type voteKey struct {
	postID int64
	userID int64
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[int64]User),
		posts:    make(map[int64]Post),
		stats:    make(map[int64]PostStats),
		likes:    make(map[int64]map[int64]struct{}),
		comments: make(map[int64]Comment),
		votes:    make(map[int64]PostVote),
		voteIdx:  make(map[voteKey]int64),
		scores:   make(map[int64]UserScore),
	}
}

// livePost returns the post if it exists and is not tombstoned.
// Caller must hold mu.
func (m *Memory) livePost(id int64) (Post, bool) {
	p, ok := m.posts[id]
	if !ok || p.DeletedAt != nil {
		return Post{}, false
	}
	return p, true
}

// UserStore

func (m *Memory) CreateUser(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextUserID++
	u.ID = m.nextUserID
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) GetUser(_ context.Context, id int64) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// PostStore

func (m *Memory) CreatePost(_ context.Context, p Post) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPostID++
	p.ID = m.nextPostID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.DeletedAt = nil
	m.posts[p.ID] = p
	m.stats[p.ID] = PostStats{PostID: p.ID}
	return p, nil
}

func (m *Memory) GetPost(_ context.Context, id int64) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.livePost(id)
	if !ok {
		return Post{}, ErrPostNotFound
	}
	return p, nil
}

func (m *Memory) UpdatePost(_ context.Context, id, userID int64, title, content string) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.livePost(id)
	if !ok {
		return Post{}, ErrPostNotFound
	}
	if p.UserID != userID {
		return Post{}, ErrNotOwner
	}
	p.Title = title
	p.Content = content
	p.UpdatedAt = time.Now().UTC()
	m.posts[id] = p
	return p, nil
}

func (m *Memory) SoftDeletePost(_ context.Context, id, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.livePost(id)
	if !ok {
		return ErrPostNotFound
	}
	if p.UserID != userID {
		return ErrNotOwner
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	m.posts[id] = p
	return nil
}

func (m *Memory) RevealAnswer(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.livePost(id)
	if !ok {
		return ErrPostNotFound
	}
	if p.AnswerRevealedAt == nil {
		now := time.Now().UTC()
		p.AnswerRevealedAt = &now
		m.posts[id] = p
	}
	return nil
}

// StatsStore

func (m *Memory) GetStats(_ context.Context, postID int64) (PostStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statsLocked(postID)
}

func (m *Memory) IncrementView(_ context.Context, postID int64) (PostStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.statsLocked(postID)
	if err != nil {
		return PostStats{}, err
	}
	s.ViewCount++
	m.stats[postID] = s
	return s, nil
}

// statsLocked returns the stats row, creating the zero row lazily.
// Caller must hold mu.
func (m *Memory) statsLocked(postID int64) (PostStats, error) {
	if _, ok := m.livePost(postID); !ok {
		return PostStats{}, ErrPostNotFound
	}
	s, ok := m.stats[postID]
	if !ok {
		s = PostStats{PostID: postID}
		m.stats[postID] = s
	}
	return s, nil
}

// LikeStore

func (m *Memory) Like(_ context.Context, postID, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.statsLocked(postID)
	if err != nil {
		return 0, err
	}
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[int64]struct{})
	}
	if _, already := m.likes[postID][userID]; already {
		return s.LikeCount, nil
	}
	m.likes[postID][userID] = struct{}{}
	s.LikeCount++
	m.stats[postID] = s
	return s.LikeCount, nil
}

func (m *Memory) Unlike(_ context.Context, postID, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.statsLocked(postID)
	if err != nil {
		return 0, err
	}
	if _, liked := m.likes[postID][userID]; !liked {
		return s.LikeCount, nil
	}
	delete(m.likes[postID], userID)
	if s.LikeCount > 0 {
		s.LikeCount--
	}
	m.stats[postID] = s
	return s.LikeCount, nil
}

func (m *Memory) IsLiked(_ context.Context, postID, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.livePost(postID); !ok {
		return false, ErrPostNotFound
	}
	_, liked := m.likes[postID][userID]
	return liked, nil
}
