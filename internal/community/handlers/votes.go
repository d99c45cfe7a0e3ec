package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/example/community-platform/internal/community/voting"
	"github.com/example/community-platform/internal/platform/api"
)

type voteRequest struct {
	VoteType string `json:"vote_type"`
}

type myVoteResponse struct {
	Voted    bool   `json:"voted"`
	VoteType string `json:"vote_type,omitempty"`
}

// VotePost handles POST /v1/posts/{post_id}/vote.
func VotePost(e *voting.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		postID, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		var req voteRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		voteType, err := voting.ParseVoteType(req.VoteType)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		result, err := e.RecordVote(r.Context(), postID, userID, voteType)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, result)
	}
}

// GetVoteStats handles GET /v1/posts/{post_id}/vote-stats.
func GetVoteStats(e *voting.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		stats, err := e.GetVoteStats(r.Context(), postID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, stats)
	}
}

// GetMyVote handles GET /v1/posts/{post_id}/vote.
func GetMyVote(e *voting.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		postID, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		vote, voted, err := e.UserVote(r.Context(), postID, userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := myVoteResponse{Voted: voted}
		if voted {
			resp.VoteType = string(vote.VoteType)
		}
		api.WriteJSON(w, http.StatusOK, resp)
	}
}

// RevealAnswer handles POST /v1/posts/{post_id}/reveal. Admin only,
// enforced by middleware.
func RevealAnswer(e *voting.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		if err := e.RevealAnswer(r.Context(), postID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetUserVoteScore handles GET /v1/users/{user_id}/vote-score.
func GetUserVoteScore(e *voting.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "user_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "user_id must be a positive integer", "", nil)
			return
		}

		score, err := e.GetUserVoteScore(r.Context(), userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, score)
	}
}
