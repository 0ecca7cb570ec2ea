package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kahdian/wikiproxy/internal/normalize"
)

const (
	DefaultAPIBase   = "https://en.wikipedia.org/w/api.php"
	DefaultUserAgent = "wikiproxy/1.0 (https://github.com/kahdian/wikiproxy)"
	DefaultTimeout   = 10 * time.Second

	// maxBodyBytes bounds how much of an upstream response is decoded.
	maxBodyBytes = 8 << 20
)

// Upstream operation names, used for logs and metrics.
const (
	OpSearch   = "search"
	OpGetLinks = "get_links"
)

// Recorder observes upstream calls. Implemented by metrics.Metrics.
type Recorder interface {
	ObserveUpstream(operation, outcome string, elapsed time.Duration)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	APIBase   string
	UserAgent string
	Timeout   time.Duration

	// RequestsPerSecond limits outgoing calls; 0 disables limiting.
	RequestsPerSecond float64
	Burst             int

	HTTPClient *http.Client
	Logger     *zap.Logger
	Recorder   Recorder
}

// Client calls the MediaWiki Action API.
type Client struct {
	apiBase   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
	recorder  Recorder
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		apiBase:   opts.APIBase,
		userAgent: opts.UserAgent,
		http:      opts.HTTPClient,
		logger:    opts.Logger,
		recorder:  opts.Recorder,
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBase
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return c
}

// SearchURL builds the list=search query for q.
func (c *Client) SearchURL(query string, limit int) string {
	v := url.Values{}
	v.Set("action", "query")
	v.Set("list", "search")
	v.Set("srsearch", query)
	v.Set("srlimit", strconv.Itoa(limit))
	v.Set("format", "json")
	return c.apiBase + "?" + v.Encode()
}

// LinksURL builds the parse request for the lead section links of title.
func (c *Client) LinksURL(title string) string {
	v := url.Values{}
	v.Set("action", "parse")
	v.Set("page", title)
	v.Set("section", "0")
	v.Set("prop", "links")
	v.Set("format", "json")
	return c.apiBase + "?" + v.Encode()
}

// Search runs a full-text search. Upstream error payloads are returned as
// documents; only transport, status, and decode failures are errors.
func (c *Client) Search(ctx context.Context, query string, limit int) (normalize.RawDocument, error) {
	start := time.Now()
	u := c.SearchURL(query, limit)
	c.logger.Debug("wikipedia search request", zap.String("url", u))

	doc, err := c.fetch(ctx, u)
	c.observe(OpSearch, statusOf(err), start)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return doc, nil
}

// GetLinks fetches the links of the lead section of title. It never returns
// a bare error: failures are folded into the Result status.
func (c *Client) GetLinks(ctx context.Context, title string) Result {
	start := time.Now()
	u := c.LinksURL(title)
	c.logger.Debug("wikipedia links request", zap.String("url", u))

	res := c.getLinks(ctx, u)
	c.observe(OpGetLinks, res.Status, start)

	switch res.Status {
	case StatusOK:
		c.logger.Debug("retrieved links data", zap.String("title", title))
	case StatusNotFound:
		c.logger.Info("article not found upstream", zap.String("title", title), zap.Error(res.Err))
	default:
		c.logger.Error("fetch article links failed", zap.String("title", title), zap.Error(res.Err))
	}
	return res
}

func (c *Client) getLinks(ctx context.Context, u string) Result {
	doc, err := c.fetch(ctx, u)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundResult(err)
		}
		return transportErrorResult(err)
	}
	if apiErr := apiError(doc); apiErr != nil {
		if errors.Is(apiErr, ErrNotFound) {
			return notFoundResult(apiErr)
		}
		return transportErrorResult(apiErr)
	}
	return okResult(doc)
}

func (c *Client) fetch(ctx context.Context, u string) (normalize.RawDocument, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("upstream status %d: %w", resp.StatusCode, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	return decodeDocument(body)
}

func decodeDocument(body []byte) (normalize.RawDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc normalize.RawDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", err)
	}
	if doc == nil {
		return nil, errors.New("decode upstream response: not a JSON object")
	}
	return doc, nil
}

func (c *Client) observe(op string, status Status, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveUpstream(op, status.String(), time.Since(start))
	}
}

func statusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	default:
		return StatusTransportError
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
