// Package handlers exposes the community engine over HTTP. Handlers are
// constructors returning http.HandlerFunc, wired to chi routes by main.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/community-platform/internal/community/feed"
	"github.com/example/community-platform/internal/community/store"
	"github.com/example/community-platform/internal/community/voting"
	"github.com/example/community-platform/internal/platform/api"
	"github.com/example/community-platform/internal/platform/auth"
)

// currentUserID resolves the authenticated user's numeric id from the
// JWT subject, or 0 for anonymous requests.
func currentUserID(r *http.Request) int64 {
	sub, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimSpace(sub), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// writeDomainError maps engine and store errors onto the API error
// envelope. Unknown errors become 500 without leaking detail.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrPostNotFound):
		api.NotFound(w, "POST_NOT_FOUND", "post not found", "")
	case errors.Is(err, store.ErrUserNotFound):
		api.NotFound(w, "USER_NOT_FOUND", "user not found", "")
	case errors.Is(err, store.ErrCommentNotFound):
		api.NotFound(w, "COMMENT_NOT_FOUND", "comment not found", "")
	case errors.Is(err, store.ErrNotOwner):
		api.Forbidden(w, "NOT_OWNER", "only the author may modify this", "")
	case errors.Is(err, store.ErrDuplicateVote):
		api.Conflict(w, "ALREADY_VOTED", "user already voted on this post", "", nil)
	case errors.Is(err, voting.ErrVotingClosed):
		api.Conflict(w, "VOTING_CLOSED", "voting deadline has passed", "", nil)
	case errors.Is(err, voting.ErrInvalidVoteType):
		api.BadRequest(w, "INVALID_VOTE_TYPE", "vote type must be AI or HUMAN", "", nil)
	case errors.Is(err, feed.ErrUnsupportedSort):
		api.BadRequest(w, "UNSUPPORTED_SORT", "unsupported sort type", "", nil)
	case errors.Is(err, feed.ErrInvalidCursor):
		api.BadRequest(w, "INVALID_CURSOR", "malformed pagination cursor", "", nil)
	default:
		api.Internal(w, "")
	}
}
