package voting

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/example/community-platform/internal/community/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return NewEngine(mem, nil, zap.NewNop()), mem
}

func createUser(t *testing.T, mem *store.Memory, nickname string) store.User {
	t.Helper()
	u, err := mem.CreateUser(context.Background(), store.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", nickname, err)
	}
	return u
}

func createVotePost(t *testing.T, mem *store.Memory, authorID int64, at *store.AuthorType, deadline *time.Time) store.Post {
	t.Helper()
	p, err := mem.CreatePost(context.Background(), store.Post{
		UserID:         authorID,
		Title:          "guess the author",
		Content:        "who wrote this?",
		AuthorType:     at,
		VoteDeadlineAt: deadline,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

func aiType() *store.AuthorType {
	at := store.AuthorAI
	return &at
}

func TestRecordVoteCorrectness(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	u1 := createUser(t, mem, "u1")
	u2 := createUser(t, mem, "u2")
	post := createVotePost(t, mem, author.ID, aiType(), nil)

	r1, err := e.RecordVote(ctx, post.ID, u1.ID, store.VoteAI)
	if err != nil {
		t.Fatalf("u1 vote: %v", err)
	}
	if !r1.IsCorrect {
		t.Error("AI vote on AI post should be correct")
	}
	if r1.PostVoteStats.AiVoteCount != 1 || r1.PostVoteStats.TotalVoteCount != 1 {
		t.Errorf("stats after u1 = %+v, want ai=1 total=1", r1.PostVoteStats)
	}
	if r1.UserTotalScore != 1 {
		t.Errorf("u1 score = %d, want 1", r1.UserTotalScore)
	}

	r2, err := e.RecordVote(ctx, post.ID, u2.ID, store.VoteHuman)
	if err != nil {
		t.Fatalf("u2 vote: %v", err)
	}
	if r2.IsCorrect {
		t.Error("HUMAN vote on AI post should be incorrect")
	}
	if r2.PostVoteStats.HumanVoteCount != 1 || r2.PostVoteStats.TotalVoteCount != 2 {
		t.Errorf("stats after u2 = %+v, want human=1 total=2", r2.PostVoteStats)
	}
	if r2.UserTotalScore != 0 {
		t.Errorf("u2 score = %d, want 0", r2.UserTotalScore)
	}

	score, err := e.GetUserVoteScore(ctx, u2.ID)
	if err != nil {
		t.Fatalf("u2 ledger: %v", err)
	}
	if score.TotalVotes != 1 || score.CorrectVotes != 0 {
		t.Errorf("u2 ledger = %+v, want total=1 correct=0", score)
	}
}

func TestRecordVoteTallyInvariant(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	post := createVotePost(t, mem, author.ID, aiType(), nil)

	votes := []store.VoteType{store.VoteAI, store.VoteHuman, store.VoteAI, store.VoteAI, store.VoteHuman}
	for i, vt := range votes {
		u := createUser(t, mem, "voter")
		if _, err := e.RecordVote(ctx, post.ID, u.ID, vt); err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}
	stats, err := mem.GetStats(ctx, post.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalVoteCount != stats.AiVoteCount+stats.HumanVoteCount {
		t.Errorf("total %d != ai %d + human %d",
			stats.TotalVoteCount, stats.AiVoteCount, stats.HumanVoteCount)
	}
	if stats.AiVoteCount != 3 || stats.HumanVoteCount != 2 {
		t.Errorf("tally = %+v, want ai=3 human=2", stats)
	}
}

func TestDuplicateVoteLeavesCountersUnchanged(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	voter := createUser(t, mem, "voter")
	post := createVotePost(t, mem, author.ID, aiType(), nil)

	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteAI); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	before, _ := mem.GetStats(ctx, post.ID)

	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteHuman); !errors.Is(err, store.ErrDuplicateVote) {
		t.Fatalf("second vote err = %v, want ErrDuplicateVote", err)
	}

	after, _ := mem.GetStats(ctx, post.ID)
	if after != before {
		t.Errorf("counters moved on duplicate: before %+v after %+v", before, after)
	}
	ledger, _, err := mem.GetScore(ctx, voter.ID)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if ledger.TotalVotes != 1 {
		t.Errorf("ledger total = %d, want 1", ledger.TotalVotes)
	}
}

func TestVoteAfterDeadline(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	voter := createUser(t, mem, "voter")
	deadline := time.Now().Add(time.Hour)
	post := createVotePost(t, mem, author.ID, aiType(), &deadline)

	e.now = func() time.Time { return deadline.Add(time.Minute) }
	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteAI); !errors.Is(err, ErrVotingClosed) {
		t.Fatalf("err = %v, want ErrVotingClosed", err)
	}

	// Exactly at the deadline is closed too.
	e.now = func() time.Time { return deadline }
	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteAI); !errors.Is(err, ErrVotingClosed) {
		t.Fatalf("at-deadline err = %v, want ErrVotingClosed", err)
	}
}

func TestPreconditionOrder(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	voter := createUser(t, mem, "voter")
	deadline := time.Now().Add(time.Hour)
	post := createVotePost(t, mem, author.ID, aiType(), &deadline)

	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteAI); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	// Closed beats duplicate: the voter already voted, but once the
	// deadline passes the closed error wins.
	e.now = func() time.Time { return deadline.Add(time.Minute) }
	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteAI); !errors.Is(err, ErrVotingClosed) {
		t.Errorf("err = %v, want ErrVotingClosed", err)
	}

	// Gone beats everything.
	if err := mem.SoftDeletePost(ctx, post.ID, author.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := e.RecordVote(ctx, post.ID, voter.ID, store.VoteAI); !errors.Is(err, store.ErrPostNotFound) {
		t.Errorf("err = %v, want ErrPostNotFound", err)
	}
}

func TestVoteByUnknownUser(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	post := createVotePost(t, mem, author.ID, aiType(), nil)

	if _, err := e.RecordVote(ctx, post.ID, 9999, store.VoteAI); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUndeclaredAuthorNeverCorrect(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	post := createVotePost(t, mem, author.ID, nil, nil)

	for _, vt := range []store.VoteType{store.VoteAI, store.VoteHuman} {
		u := createUser(t, mem, "voter")
		r, err := e.RecordVote(ctx, post.ID, u.ID, vt)
		if err != nil {
			t.Fatalf("vote %s: %v", vt, err)
		}
		if r.IsCorrect {
			t.Errorf("%s vote on undeclared post marked correct", vt)
		}
	}
}

func TestVoteStatsWithholdsAuthorUntilReveal(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	post := createVotePost(t, mem, author.ID, aiType(), nil)

	for i := 0; i < 3; i++ {
		u := createUser(t, mem, "voter")
		vt := store.VoteAI
		if i == 2 {
			vt = store.VoteHuman
		}
		if _, err := e.RecordVote(ctx, post.ID, u.ID, vt); err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}

	vs, err := e.GetVoteStats(ctx, post.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if vs.AuthorType != nil {
		t.Error("author type disclosed before reveal")
	}
	if vs.AnswerRevealed {
		t.Error("answer marked revealed before reveal")
	}
	wantAI := float64(2) / 3 * 100
	if vs.AiPercentage != wantAI {
		t.Errorf("ai percentage = %v, want %v", vs.AiPercentage, wantAI)
	}

	if err := e.RevealAnswer(ctx, post.ID); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	// Revealing again is a no-op, not an error.
	if err := e.RevealAnswer(ctx, post.ID); err != nil {
		t.Fatalf("second reveal: %v", err)
	}

	vs, err = e.GetVoteStats(ctx, post.ID)
	if err != nil {
		t.Fatalf("stats after reveal: %v", err)
	}
	if vs.AuthorType == nil || *vs.AuthorType != store.AuthorAI {
		t.Errorf("author type after reveal = %v, want AI", vs.AuthorType)
	}
}

func TestVoteStatsZeroVotes(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	author := createUser(t, mem, "author")
	post := createVotePost(t, mem, author.ID, aiType(), nil)

	vs, err := e.GetVoteStats(ctx, post.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if vs.AiPercentage != 0 || vs.HumanPercentage != 0 {
		t.Errorf("percentages on empty tally = %v/%v, want 0/0", vs.AiPercentage, vs.HumanPercentage)
	}
}

func TestGetUserVoteScoreNeverVoted(t *testing.T) {
	ctx := context.Background()
	e, mem := newTestEngine(t)
	u := createUser(t, mem, "idle")

	s, err := e.GetUserVoteScore(ctx, u.ID)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if s.VoteScore != 0 || s.TotalVotes != 0 || s.Accuracy != 0 {
		t.Errorf("idle user ledger = %+v, want zeros", s)
	}
	if s.Nickname != "idle" {
		t.Errorf("nickname = %q, want idle", s.Nickname)
	}

	if _, err := e.GetUserVoteScore(ctx, 9999); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("unknown user err = %v, want ErrUserNotFound", err)
	}
}

func TestParseVoteType(t *testing.T) {
	if _, err := ParseVoteType("AI"); err != nil {
		t.Errorf("AI rejected: %v", err)
	}
	if _, err := ParseVoteType("HUMAN"); err != nil {
		t.Errorf("HUMAN rejected: %v", err)
	}
	for _, bad := range []string{"", "ai", "ROBOT"} {
		if _, err := ParseVoteType(bad); !errors.Is(err, ErrInvalidVoteType) {
			t.Errorf("ParseVoteType(%q) err = %v, want ErrInvalidVoteType", bad, err)
		}
	}
}
