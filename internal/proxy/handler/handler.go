package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kahdian/wikiproxy/internal/normalize"
	"github.com/kahdian/wikiproxy/internal/wiki"
)

// WikiClient is the upstream the handlers read from. Implemented by
// *wiki.Client.
type WikiClient interface {
	Search(ctx context.Context, query string, limit int) (normalize.RawDocument, error)
	GetLinks(ctx context.Context, title string) wiki.Result
}

// LinkFilterRecorder counts titles dropped by the link filter.
type LinkFilterRecorder interface {
	AddFilteredLinks(reason string, n int)
}

// Handlers holds all HTTP handler dependencies.
type Handlers struct {
	Wiki    WikiClient
	Logger  *zap.Logger
	Metrics LinkFilterRecorder // optional

	// Now is the clock used for the liveness timestamp; defaults to time.Now.
	Now func() time.Time
}

func (h *Handlers) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func (h *Handlers) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEmpty sends a status with no body.
func writeEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}
