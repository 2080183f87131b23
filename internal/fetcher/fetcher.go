// Package fetcher retrieves the raw markdown behind a catalog.FileRef and
// classifies every failure into a small taxonomy the UI can explain.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/learnhub/internal/catalog"
)

// maxDocumentBytes caps how much of a response body is read.
const maxDocumentBytes = 8 << 20

// Kind classifies a fetch failure.
type Kind string

const (
	KindNotFound Kind = "not_found"
	KindNetwork  Kind = "network"
	KindServer   Kind = "server"
)

// Error is the only error type returned by a Fetcher.
type Error struct {
	Kind   Kind
	Path   string
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("fetch %s: %s (HTTP %d)", e.Path, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %s: %v", e.Path, e.Kind, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s", e.Path, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the failure kind of err, or "" if err is not a fetch error.
func KindOf(err error) Kind {
	if fe, ok := AsError(err); ok {
		return fe.Kind
	}
	return ""
}

// Fetcher retrieves document text. Implementations issue one request per
// call, never retry, and report ordinary failures as *Error values.
type Fetcher interface {
	Fetch(ctx context.Context, ref catalog.FileRef) (string, error)
}

// HTTPFetcher fetches documents with GET requests relative to a base URL.
type HTTPFetcher struct {
	base   *url.URL
	client *http.Client
	log    *zap.Logger
}

// Option customizes an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *HTTPFetcher) { f.client = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(f *HTTPFetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewHTTPFetcher creates a fetcher rooted at baseURL, e.g.
// "http://localhost:8080/content/".
func NewHTTPFetcher(baseURL string, opts ...Option) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", baseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	f := &HTTPFetcher{
		base:   u,
		client: &http.Client{},
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Fetch issues a single GET for ref. Deadlines come from ctx.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref catalog.FileRef) (string, error) {
	switch f.base.Scheme {
	case "http", "https":
	case "file":
		return "", &Error{Kind: KindNetwork, Path: ref.Path, Err: errors.New("documents cannot be loaded from a file:// origin; serve the hub over http")}
	default:
		return "", &Error{Kind: KindNetwork, Path: ref.Path, Err: fmt.Errorf("unsupported scheme %q", f.base.Scheme)}
	}

	target := f.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(ref.Path, "/")})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Path: ref.Path, Err: err}
	}
	req.Header.Set("Accept", "text/markdown, text/plain;q=0.9, */*;q=0.1")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug("fetch failed", zap.String("path", ref.Path), zap.Error(err))
		return "", &Error{Kind: KindNetwork, Path: ref.Path, Err: err}
	}
	defer resp.Body.Close()

	f.log.Debug("fetched",
		zap.String("path", ref.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", &Error{Kind: KindNotFound, Path: ref.Path, Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return "", &Error{Kind: KindServer, Path: ref.Path, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return "", &Error{Kind: KindNetwork, Path: ref.Path, Err: err}
	}
	return string(body), nil
}

// FSFetcher reads documents from a file system with the same failure taxonomy.
type FSFetcher struct {
	fsys fs.FS
}

// NewFSFetcher returns a fetcher over fsys.
func NewFSFetcher(fsys fs.FS) *FSFetcher {
	return &FSFetcher{fsys: fsys}
}

// Fetch reads ref.Path from the file system.
func (f *FSFetcher) Fetch(ctx context.Context, ref catalog.FileRef) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindNetwork, Path: ref.Path, Err: err}
	}
	data, err := fs.ReadFile(f.fsys, strings.TrimPrefix(ref.Path, "/"))
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrInvalid):
		return "", &Error{Kind: KindNotFound, Path: ref.Path, Err: err}
	case err != nil:
		return "", &Error{Kind: KindServer, Path: ref.Path, Err: err}
	}
	return string(data), nil
}
