// Package dashboard serves the browser hub: the single-page reader, the
// JSON API it talks to, the raw content tree and live-reload notifications.
package dashboard

import (
	"io/fs"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/logging"
	"github.com/ziadkadry99/learnhub/internal/prefs"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// Options configures a Dashboard.
type Options struct {
	Registry *catalog.Registry
	Content  fs.FS
	Renderer *render.Renderer
	Prefs    *prefs.SQLStore
	Logger   *zap.Logger
	// FetchTimeout is handed to the browser, which aborts slower requests.
	FetchTimeout time.Duration
	// CacheTTL bounds how long a rendered document is reused.
	CacheTTL time.Duration
}

// Dashboard provides the reader UI and its API.
type Dashboard struct {
	reg          *catalog.Registry
	content      fs.FS
	fetcher      fetcher.Fetcher
	renderer     *render.Renderer
	prefs        *prefs.SQLStore
	log          *zap.Logger
	fetchTimeout time.Duration
	cache        *cache.Cache
	hub          *Hub
}

// New creates a new Dashboard.
func New(opts Options) *Dashboard {
	r := opts.Renderer
	if r == nil {
		r = render.New()
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	log := logging.OrNop(opts.Logger)
	return &Dashboard{
		reg:          opts.Registry,
		content:      opts.Content,
		fetcher:      fetcher.NewFSFetcher(opts.Content),
		renderer:     r,
		prefs:        opts.Prefs,
		log:          log,
		fetchTimeout: opts.FetchTimeout,
		cache:        cache.New(ttl, 10*time.Minute),
		hub:          NewHub(log),
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Handle("/content/*", d.contentHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/api/config", d.handleConfig)
		r.Get("/api/subjects", d.handleSubjects)
		r.Get("/api/documents/*", d.handleDocument)
		r.Get("/api/styles.css", d.handleStyles)
		r.Get("/api/preferences/dark-mode", d.handleGetDarkMode)
		r.Put("/api/preferences/dark-mode", d.handlePutDarkMode)
	})

	r.Get("/ws/reload", d.hub.ServeWS)
}

// Hub returns the live-reload hub.
func (d *Dashboard) Hub() *Hub { return d.hub }

// Invalidate drops the rendered copy of path and tells connected browsers
// that it changed.
func (d *Dashboard) Invalidate(path string) {
	d.cache.Delete(path)
	d.hub.Broadcast(ReloadMessage{Type: MessageChanged, Path: path})
}

// Close disconnects every live-reload client.
func (d *Dashboard) Close() {
	d.hub.Close()
}
