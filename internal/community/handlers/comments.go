package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/community-platform/internal/community/store"
	"github.com/example/community-platform/internal/platform/api"
)

type commentRequest struct {
	Content string `json:"content"`
}

type commentListResponse struct {
	Comments []store.Comment `json:"comments"`
	Count    int             `json:"count"`
}

// CreateComment handles POST /v1/posts/{post_id}/comments.
func CreateComment(cs store.CommentStore) http.HandlerFunc {
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

		var req commentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			api.BadRequest(w, "EMPTY_CONTENT", "content must not be empty", "", nil)
			return
		}

		created, err := cs.AddComment(r.Context(), store.Comment{
			PostID:  postID,
			UserID:  userID,
			Content: req.Content,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListComments handles GET /v1/posts/{post_id}/comments?limit=&before=.
func ListComments(cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		limit := 50
		if l := r.URL.Query().Get("limit"); l != "" {
			if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
				limit = parsed
			}
		}
		var beforeID int64
		if b := r.URL.Query().Get("before"); b != "" {
			parsed, err := strconv.ParseInt(b, 10, 64)
			if err != nil || parsed <= 0 {
				api.BadRequest(w, "INVALID_BEFORE", "before must be a positive integer", "", nil)
				return
			}
			beforeID = parsed
		}

		comments, err := cs.ListComments(r.Context(), postID, limit, beforeID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, commentListResponse{Comments: comments, Count: len(comments)})
	}
}

// UpdateComment handles PUT /v1/comments/{comment_id}.
func UpdateComment(cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		commentID, ok := pathID(r, "comment_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "comment_id must be a positive integer", "", nil)
			return
		}

		var req commentRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			api.BadRequest(w, "EMPTY_CONTENT", "content must not be empty", "", nil)
			return
		}

		updated, err := cs.UpdateComment(r.Context(), commentID, userID, req.Content)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteComment handles DELETE /v1/comments/{comment_id}.
func DeleteComment(cs store.CommentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		commentID, ok := pathID(r, "comment_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "comment_id must be a positive integer", "", nil)
			return
		}

		if err := cs.SoftDeleteComment(r.Context(), commentID, userID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
