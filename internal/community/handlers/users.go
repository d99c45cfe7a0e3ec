package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/community-platform/internal/community/store"
	"github.com/example/community-platform/internal/platform/analytics"
	"github.com/example/community-platform/internal/platform/api"
)

type createUserRequest struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
}

// CreateUser handles POST /v1/users.
func CreateUser(us store.UserStore, an *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			api.BadRequest(w, "INVALID_JSON", "invalid JSON", "", nil)
			return
		}
		if strings.TrimSpace(req.Nickname) == "" || strings.TrimSpace(req.Email) == "" {
			api.BadRequest(w, "EMPTY_FIELDS", "nickname and email must not be empty", "", nil)
			return
		}

		created, err := us.CreateUser(r.Context(), store.User{
			Nickname: strings.TrimSpace(req.Nickname),
			Email:    strings.TrimSpace(req.Email),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		an.Publish(analytics.SubjectUserRegistered, "user_registered",
			strconv.FormatInt(created.ID, 10), nil)
		api.WriteJSON(w, http.StatusCreated, created)
	}
}

// GetUser handles GET /v1/users/{user_id}.
func GetUser(us store.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "user_id")
		if !ok {
			api.BadRequest(w, "INVALID_ID", "user_id must be a positive integer", "", nil)
			return
		}

		u, err := us.GetUser(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, u)
	}
}
