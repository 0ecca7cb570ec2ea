package wiki

import (
	"errors"
	"fmt"

	"github.com/kahdian/wikiproxy/internal/normalize"
)

// ErrNotFound is reported when the requested page does not exist upstream.
var ErrNotFound = errors.New("wiki: page not found")

// Status classifies the outcome of an upstream fetch.
type Status int

const (
	StatusOK Status = iota
	StatusNotFound
	StatusTransportError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFound:
		return "not_found"
	case StatusTransportError:
		return "transport_error"
	}
	return "unknown"
}

// Result is the outcome of GetLinks. Document is set only for StatusOK;
// Err is set for every other status.
type Result struct {
	Status   Status
	Document normalize.RawDocument
	Err      error
}

// Absent reports whether no document is available, whatever the reason.
func (r Result) Absent() bool {
	return r.Status != StatusOK || r.Document == nil
}

func okResult(doc normalize.RawDocument) Result {
	return Result{Status: StatusOK, Document: doc}
}

func notFoundResult(err error) Result {
	return Result{Status: StatusNotFound, Err: err}
}

func transportErrorResult(err error) Result {
	return Result{Status: StatusTransportError, Err: err}
}

// APIError is an error object returned inside an otherwise successful
// MediaWiki response.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wiki: api error %s: %s", e.Code, e.Info)
}

// Is lets errors.Is(err, ErrNotFound) match missing and invalid titles.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && (e.Code == "missingtitle" || e.Code == "invalidtitle")
}

// apiError extracts the top-level "error" object from doc, if any.
func apiError(doc normalize.RawDocument) *APIError {
	errNode := normalize.Root(doc).Get("error")
	if !errNode.IsObject() {
		return nil
	}
	code, _ := errNode.Get("code").String()
	info, _ := errNode.Get("info").String()
	return &APIError{Code: code, Info: info}
}
