package store

import (
	"context"
	"sort"
	"time"
)

// VoteStore

func (m *Memory) RecordVote(_ context.Context, v PostVote) (VoteOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.statsLocked(v.PostID)
	if err != nil {
		return VoteOutcome{}, err
	}
	key := voteKey{postID: v.PostID, userID: v.UserID}
	if _, dup := m.voteIdx[key]; dup {
		return VoteOutcome{}, ErrDuplicateVote
	}

	m.nextVoteID++
	v.ID = m.nextVoteID
	v.CreatedAt = time.Now().UTC()
	m.votes[v.ID] = v
	m.voteIdx[key] = v.ID

	if v.VoteType == VoteAI {
		s.AiVoteCount++
	} else {
		s.HumanVoteCount++
	}
	s.TotalVoteCount++
	m.stats[v.PostID] = s

	sc, ok := m.scores[v.UserID]
	if !ok {
		sc = UserScore{UserID: v.UserID, CreatedAt: v.CreatedAt}
	}
	sc.TotalVotes++
	if v.Correct {
		sc.VoteScore++
		sc.CorrectVotes++
	}
	sc.UpdatedAt = v.CreatedAt
	m.scores[v.UserID] = sc

	return VoteOutcome{Vote: v, Stats: s, Score: sc}, nil
}

func (m *Memory) GetVote(_ context.Context, postID, userID int64) (PostVote, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.voteIdx[voteKey{postID: postID, userID: userID}]
	if !ok {
		return PostVote{}, false, nil
	}
	return m.votes[id], true, nil
}

// ScoreStore

func (m *Memory) GetScore(_ context.Context, userID int64) (UserScore, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.scores[userID]
	return s, ok, nil
}

func (m *Memory) TopRanked(_ context.Context, limit int) ([]RankedScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []RankedScore
	for _, s := range m.scores {
		if s.VoteScore <= 0 {
			continue
		}
		out = append(out, RankedScore{UserScore: s, Nickname: m.users[s.UserID].Nickname})
	}
	sort.Slice(out, func(i, j int) bool {
		return ranksHigher(out[i].UserScore, out[j].UserScore)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) CountRankedAbove(_ context.Context, s UserScore) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, other := range m.scores {
		if other.VoteScore > 0 && ranksHigher(other, s) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountRanked(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for _, s := range m.scores {
		if s.VoteScore > 0 {
			n++
		}
	}
	return n, nil
}

// ranksHigher reports whether a strictly precedes b in ranking order:
// vote score desc, correct votes desc, user id asc.
func ranksHigher(a, b UserScore) bool {
	if a.VoteScore != b.VoteScore {
		return a.VoteScore > b.VoteScore
	}
	if a.CorrectVotes != b.CorrectVotes {
		return a.CorrectVotes > b.CorrectVotes
	}
	return a.UserID < b.UserID
}
