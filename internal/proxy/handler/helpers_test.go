package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kahdian/wikiproxy/internal/normalize"
	"github.com/kahdian/wikiproxy/internal/wiki"
)

// fakeWiki is a WikiClient that records calls and replays canned results.
type fakeWiki struct {
	mu sync.Mutex

	searchDoc normalize.RawDocument
	searchErr error
	links     wiki.Result
	panicWith any

	searchCalls []searchCall
	linkCalls   []string
}

type searchCall struct {
	query string
	limit int
}

func (f *fakeWiki) Search(_ context.Context, query string, limit int) (normalize.RawDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, searchCall{query: query, limit: limit})
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.searchDoc, f.searchErr
}

func (f *fakeWiki) GetLinks(_ context.Context, title string) wiki.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linkCalls = append(f.linkCalls, title)
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	return f.links
}

type fakeLinkRecorder struct {
	counts map[string]int
}

func (f *fakeLinkRecorder) AddFilteredLinks(reason string, n int) {
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[reason] += n
}

var fixedNow = time.UnixMilli(1700000000123)

func newTestHandlers(w *fakeWiki) *Handlers {
	return &Handlers{
		Wiki: w,
		Now:  func() time.Time { return fixedNow },
	}
}

// withTitle attaches a chi route context carrying the {title} param.
func withTitle(r *http.Request, title string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("title", title)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
