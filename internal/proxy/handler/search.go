package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kahdian/wikiproxy/internal/normalize"
)

// DefaultSearchLimit is used when the limit parameter is omitted.
const DefaultSearchLimit = 10

// Search handles GET /search?q=...&limit=...
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeEmpty(w, http.StatusBadRequest)
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		h.logger().Debug("invalid search limit", zap.Error(err))
		writeEmpty(w, http.StatusBadRequest)
		return
	}

	doc, err := h.Wiki.Search(r.Context(), query, limit)
	if err != nil {
		h.logger().Error("wikipedia search failed", zap.String("query", query), zap.Error(err))
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	result := normalize.NormalizeSearch(doc)
	h.logger().Debug("parsed search results",
		zap.String("query", query),
		zap.Int64("totalhits", result.TotalHits),
		zap.Int("titles", len(result.Titles)),
	)
	writeJSON(w, http.StatusOK, result)
}

// parseLimit accepts any integer; bounding is left to the upstream API.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return DefaultSearchLimit, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}
