package handlers

import (
	"net/http"
	"strconv"

	"github.com/example/community-platform/internal/community/ranking"
	"github.com/example/community-platform/internal/platform/api"
)

// GetRankings handles GET /v1/rankings?limit=. An authenticated caller
// with a positive score also gets their own position in the response.
func GetRankings(c *ranking.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil {
				api.BadRequest(w, "INVALID_LIMIT", "limit must be an integer", "", nil)
				return
			}
			limit = parsed
		}

		lb, err := c.TopRankings(r.Context(), limit, currentUserID(r))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		api.WriteJSON(w, http.StatusOK, lb)
	}
}
