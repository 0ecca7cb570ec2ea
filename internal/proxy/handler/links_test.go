package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kahdian/wikiproxy/internal/normalize"
	"github.com/kahdian/wikiproxy/internal/wiki"
)

func linksDoc(titles ...string) normalize.RawDocument {
	links := make([]any, len(titles))
	for i, t := range titles {
		links[i] = map[string]any{"ns": json.Number("0"), "*": t}
	}
	return normalize.RawDocument{"parse": map[string]any{"links": links}}
}

func TestLinks_Success(t *testing.T) {
	fw := &fakeWiki{links: wiki.Result{
		Status:   wiki.StatusOK,
		Document: linksDoc("Dog", "Category:Mammals", "Cat2", "Cat", "Cat"),
	}}
	rec := &fakeLinkRecorder{}
	h := newTestHandlers(fw)
	h.Metrics = rec

	w := httptest.NewRecorder()
	h.Links(w, withTitle(httptest.NewRequest("GET", "/links/Dog", nil), "Dog"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Dog","linkedArticles":["Cat","Dog"],"count":2}`, w.Body.String())
	assert.Equal(t, []string{"Dog"}, fw.linkCalls)
	assert.Equal(t, map[string]int{"namespace": 1, "digit": 1}, rec.counts)
}

func TestLinks_EmptyLinkSetIsNotAnError(t *testing.T) {
	fw := &fakeWiki{links: wiki.Result{
		Status:   wiki.StatusOK,
		Document: normalize.RawDocument{"parse": map[string]any{"title": "Stub"}},
	}}
	h := newTestHandlers(fw)

	w := httptest.NewRecorder()
	h.Links(w, withTitle(httptest.NewRequest("GET", "/links/Stub", nil), "Stub"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"title":"Stub","linkedArticles":[],"count":0}`, w.Body.String())
}

func TestLinks_UnescapesTitle(t *testing.T) {
	fw := &fakeWiki{links: wiki.Result{Status: wiki.StatusOK, Document: linksDoc()}}
	h := newTestHandlers(fw)

	w := httptest.NewRecorder()
	h.Links(w, withTitle(httptest.NewRequest("GET", "/links/AC%2FDC", nil), "AC%2FDC"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"AC/DC"}, fw.linkCalls)
}

func TestLinks_DecodedPathIsNotUnescapedAgain(t *testing.T) {
	fw := &fakeWiki{links: wiki.Result{Status: wiki.StatusOK, Document: linksDoc()}}
	h := newTestHandlers(fw)

	// net/http already turned %2541 into %41 and left RawPath empty.
	r := httptest.NewRequest("GET", "/links/100%2541", nil)
	require.Empty(t, r.URL.RawPath)

	w := httptest.NewRecorder()
	h.Links(w, withTitle(r, "100%41"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"100%41"}, fw.linkCalls)
}

func TestLinks_RejectsBlankTitleWithoutUpstreamCall(t *testing.T) {
	for _, title := range []string{"", "   ", "\t", " \n "} {
		t.Run(title, func(t *testing.T) {
			fw := &fakeWiki{}
			h := newTestHandlers(fw)

			w := httptest.NewRecorder()
			h.Links(w, withTitle(httptest.NewRequest("GET", "/links/", nil), title))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, w.Body.String())
			assert.Empty(t, fw.linkCalls)
		})
	}
}

func TestLinks_AbsentIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		res  wiki.Result
	}{
		{"not found", wiki.Result{Status: wiki.StatusNotFound, Err: wiki.ErrNotFound}},
		{"transport error", wiki.Result{Status: wiki.StatusTransportError, Err: errors.New("dial tcp: timeout")}},
		{"ok without document", wiki.Result{Status: wiki.StatusOK}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &fakeWiki{links: tt.res}
			h := newTestHandlers(fw)

			w := httptest.NewRecorder()
			h.Links(w, withTitle(httptest.NewRequest("GET", "/links/Nope", nil), "Nope"))

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}

func TestLinks_UnexpectedFaultIs500(t *testing.T) {
	fw := &fakeWiki{panicWith: errors.New("boom")}
	h := newTestHandlers(fw)

	w := httptest.NewRecorder()
	h.Links(w, withTitle(httptest.NewRequest("GET", "/links/Dog", nil), "Dog"))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var resp LinksErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to fetch links for article: Dog", resp.Error)
	assert.Equal(t, "boom", resp.Message)
}

func TestLinks_AbortHandlerPanicPropagates(t *testing.T) {
	fw := &fakeWiki{panicWith: http.ErrAbortHandler}
	h := newTestHandlers(fw)

	w := httptest.NewRecorder()
	r := withTitle(httptest.NewRequest("GET", "/links/Dog", nil), "Dog")
	assert.PanicsWithValue(t, http.ErrAbortHandler, func() { h.Links(w, r) })
}

func TestFaultMessage(t *testing.T) {
	assert.Equal(t, "boom", faultMessage(errors.New("boom")))
	assert.Equal(t, "text", faultMessage("text"))
	assert.Equal(t, "internal error", faultMessage(42))
	assert.Len(t, faultMessage(string(make([]byte, 500))), maxFaultMessage)
}
