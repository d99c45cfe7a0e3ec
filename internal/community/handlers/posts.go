package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/community-platform/internal/community/feed"
	"github.com/example/community-platform/internal/community/store"
	"github.com/example/community-platform/internal/platform/analytics"
	"github.com/example/community-platform/internal/platform/api"
)

const maxBodyBytes = 1 << 20

type createPostRequest struct {
	Title             string  `json:"title"`
	Content           string  `json:"content"`
	AuthorType        *string `json:"author_type,omitempty"`
	CustomAuthorName  *string `json:"custom_author_name,omitempty"`
	VoteDeadlineHours *int    `json:"vote_deadline_hours,omitempty"`
}

type updatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type postDetailResponse struct {
	Post  store.Post      `json:"post"`
	Stats store.PostStats `json:"stats"`
	Liked bool            `json:"liked"`
}

type feedResponse struct {
	Posts      []store.PostSummary `json:"posts"`
	NextCursor string              `json:"next_cursor,omitempty"`
	HasNext    bool                `json:"has_next"`
}

type likeResponse struct {
	PostID    int64 `json:"post_id"`
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// PostStores groups the store surfaces the post handlers touch.
type PostStores interface {
	store.PostStore
	store.StatsStore
	store.LikeStore
	store.FeedSource
}

// CreatePost handles POST /v1/posts.
func CreatePost(ps PostStores, an *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
			api.BadRequest(w, "EMPTY_FIELDS", "title and content must not be empty", "", nil)
			return
		}

		p := store.Post{
			UserID:           userID,
			Title:            req.Title,
			Content:          req.Content,
			CustomAuthorName: req.CustomAuthorName,
		}
		if req.AuthorType != nil {
			at := store.AuthorType(strings.ToUpper(strings.TrimSpace(*req.AuthorType)))
			if at != store.AuthorAI && at != store.AuthorHuman {
				api.BadRequest(w, "INVALID_AUTHOR_TYPE", "author_type must be AI or HUMAN", "", nil)
				return
			}
			p.AuthorType = &at
		}
		if req.VoteDeadlineHours != nil {
			if *req.VoteDeadlineHours <= 0 {
				api.BadRequest(w, "INVALID_DEADLINE", "vote_deadline_hours must be positive", "", nil)
				return
			}
			deadline := time.Now().UTC().Add(time.Duration(*req.VoteDeadlineHours) * time.Hour)
			p.VoteDeadlineAt = &deadline
		}

		created, err := ps.CreatePost(r.Context(), p)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		an.Publish(analytics.SubjectPostCreated, "post_created",
			strconv.FormatInt(userID, 10), map[string]any{"post_id": created.ID})
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// ListPosts handles GET /v1/posts?sort=&cursor=&size=.
func ListPosts(p *feed.Paginator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, err := feed.ParseSortMode(r.URL.Query().Get("sort"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		size := feed.DefaultPageSize
		if s := r.URL.Query().Get("size"); s != "" {
			parsed, err := strconv.Atoi(s)
			if err != nil {
				api.BadRequest(w, "INVALID_SIZE", "size must be an integer", "", nil)
				return
			}
			size = feed.ClampSize(parsed)
		}

		page, err := p.List(r.Context(), key, strings.TrimSpace(r.URL.Query().Get("cursor")), size)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, feedResponse{
			Posts:      page.Posts,
			NextCursor: page.NextCursor,
			HasNext:    page.HasNext,
		})
	}
}

// GetPost handles GET /v1/posts/{post_id}. Every hit counts as a view.
func GetPost(ps PostStores, an *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		post, err := ps.GetPost(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		stats, err := ps.IncrementView(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		liked := false
		if uid := currentUserID(r); uid > 0 {
			liked, _ = ps.IsLiked(r.Context(), id, uid)
		}

		// The author's identity stays concealed until the answer reveal.
		if !post.AnswerRevealed() {
			post.AuthorType = nil
		}

		an.Publish(analytics.SubjectPostViewed, "post_viewed", "",
			map[string]any{"post_id": id})
		api.WriteJSON(w, http.StatusOK, postDetailResponse{Post: post, Stats: stats, Liked: liked})
	}
}

// UpdatePost handles PUT /v1/posts/{post_id}.
func UpdatePost(ps PostStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		id, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		var req updatePostRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
			api.BadRequest(w, "EMPTY_FIELDS", "title and content must not be empty", "", nil)
			return
		}

		updated, err := ps.UpdatePost(r.Context(), id, userID, req.Title, req.Content)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeletePost handles DELETE /v1/posts/{post_id}.
func DeletePost(ps PostStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		id, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		if err := ps.SoftDeletePost(r.Context(), id, userID); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// LikePost handles POST /v1/posts/{post_id}/like.
func LikePost(ps PostStores, an *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		id, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		count, err := ps.Like(r.Context(), id, userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		an.Publish(analytics.SubjectPostLiked, "post_liked",
			strconv.FormatInt(userID, 10), map[string]any{"post_id": id})
		api.WriteJSON(w, http.StatusOK, likeResponse{PostID: id, Liked: true, LikeCount: count})
	}
}

// UnlikePost handles DELETE /v1/posts/{post_id}/like.
func UnlikePost(ps PostStores) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := currentUserID(r)
		if userID == 0 {
			api.Unauthorized(w, "UNAUTHORIZED", "authentication required", "")
			return
		}
		id, ok := pathID(r, "post_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "post_id must be a positive integer", "", nil)
			return
		}

		count, err := ps.Unlike(r.Context(), id, userID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, likeResponse{PostID: id, Liked: false, LikeCount: count})
	}
}
