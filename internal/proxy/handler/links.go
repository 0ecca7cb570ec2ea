package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kahdian/wikiproxy/internal/normalize"
)

// LinksResponse is the body of a successful GET /links/{title}.
type LinksResponse struct {
	Title          string   `json:"title"`
	LinkedArticles []string `json:"linkedArticles"`
	Count          int      `json:"count"`
}

// LinksErrorResponse is returned when link processing fails unexpectedly.
type LinksErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Links handles GET /links/{title}.
func (h *Handlers) Links(w http.ResponseWriter, r *http.Request) {
	title := pathTitle(r)
	h.logger().Info("received request for article links", zap.String("title", title))

	if strings.TrimSpace(title) == "" {
		h.logger().Warn("empty title provided")
		writeEmpty(w, http.StatusBadRequest)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.logger().Error("processing links failed", zap.String("title", title), zap.Any("panic", rec))
			writeJSON(w, http.StatusInternalServerError, LinksErrorResponse{
				Error:   "Failed to fetch links for article: " + title,
				Message: faultMessage(rec),
			})
		}
	}()

	res := h.Wiki.GetLinks(r.Context(), title)
	if res.Absent() {
		h.logger().Warn("failed to retrieve links data",
			zap.String("title", title),
			zap.Stringer("status", res.Status),
			zap.Error(res.Err),
		)
		writeEmpty(w, http.StatusNotFound)
		return
	}

	report := normalize.AnalyzeLinks(res.Document)
	h.recordRejected(report.Rejected)
	h.logger().Info("processed linked articles",
		zap.String("title", title),
		zap.Int("count", len(report.Titles)),
	)

	writeJSON(w, http.StatusOK, LinksResponse{
		Title:          title,
		LinkedArticles: report.Titles,
		Count:          len(report.Titles),
	})
}

func (h *Handlers) recordRejected(rejected map[normalize.Reason]int) {
	if h.Metrics == nil {
		return
	}
	for reason, n := range rejected {
		h.Metrics.AddFilteredLinks(reason.String(), n)
	}
}

// pathTitle returns the {title} path segment decoded exactly once. chi
// routes on r.URL.RawPath when it is set, so only then is the param still
// escaped; otherwise it comes from the already decoded r.URL.Path.
func pathTitle(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	if r.URL.RawPath == "" {
		return raw
	}
	if title, err := url.PathUnescape(raw); err == nil {
		return title
	}
	return raw
}

const maxFaultMessage = 200

func faultMessage(rec any) string {
	msg := "internal error"
	if err, ok := rec.(error); ok {
		msg = err.Error()
	} else if s, ok := rec.(string); ok {
		msg = s
	}
	if len(msg) > maxFaultMessage {
		msg = msg[:maxFaultMessage]
	}
	return msg
}
