// Package navigator is the session state machine of the hub. A Controller
// owns the navigation State and changes it only in Update, which receives
// user intents and fetch results as Event values.
package navigator

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/prefs"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// DefaultFetchTimeout bounds a single fetch unless overridden.
const DefaultFetchTimeout = 30 * time.Second

// Controller is not safe for concurrent use. Update, Init and State must be
// called from one goroutine; the Cmds it returns may run anywhere.
type Controller struct {
	reg      *catalog.Registry
	fetcher  fetcher.Fetcher
	renderer *render.Renderer
	prefs    prefs.Store
	log      *zap.Logger
	timeout  time.Duration

	state State
	cache map[string]*Document

	// token identifies the only fetch allowed to settle the content pane.
	token       uint64
	cancelFetch context.CancelFunc
}

// Option customizes a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithFetchTimeout bounds each fetch. Zero disables the timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New creates a Controller in PhaseIdle. A nil store keeps preferences in
// memory and a nil renderer uses render.New().
func New(reg *catalog.Registry, f fetcher.Fetcher, r *render.Renderer, store prefs.Store, opts ...Option) *Controller {
	if r == nil {
		r = render.New()
	}
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	c := &Controller{
		reg:      reg,
		fetcher:  f,
		renderer: r,
		prefs:    store,
		log:      zap.NewNop(),
		timeout:  DefaultFetchTimeout,
		state:    State{Phase: PhaseIdle, FileIndex: -1},
		cache:    make(map[string]*Document),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Init restores the persisted dark-mode flag. A store failure is logged and
// leaves dark mode off.
func (c *Controller) Init(ctx context.Context) {
	dark, ok, err := c.prefs.Bool(ctx, prefs.KeyDarkMode)
	if err != nil {
		c.log.Warn("reading dark mode preference", zap.Error(err))
		return
	}
	if ok {
		c.state.DarkMode = dark
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	return c.state
}

// Registry returns the catalog the controller navigates.
func (c *Controller) Registry() *catalog.Registry {
	return c.reg
}

// VisibleSubjects returns the sidebar subjects after the search filter.
func (c *Controller) VisibleSubjects() []catalog.Subject {
	return c.reg.Filter(c.state.SearchQuery)
}

// HasNext reports whether SelectNext would open a file.
func (c *Controller) HasNext() bool {
	_, ok := c.neighbour(1)
	return ok
}

// HasPrevious reports whether SelectPrevious would open a file.
func (c *Controller) HasPrevious() bool {
	_, ok := c.neighbour(-1)
	return ok
}

// Cached reports whether a document for path is in the cache.
func (c *Controller) Cached(path string) bool {
	_, ok := c.cache[path]
	return ok
}

// Update applies ev and returns the follow-up work, if any. Fetch contexts
// derive from ctx.
func (c *Controller) Update(ctx context.Context, ev Event) Cmd {
	switch ev := ev.(type) {
	case SelectSubject:
		c.selectSubject(ev.Key)
	case SelectFolder:
		c.selectFolder(ev.Kind)
	case SelectFile:
		return c.selectFile(ctx, ev)
	case SelectNext:
		return c.step(ctx, 1)
	case SelectPrevious:
		return c.step(ctx, -1)
	case Retry:
		if c.state.Phase != PhaseError {
			return nil
		}
		return c.load(ctx, c.state.Current)
	case ToggleDarkMode:
		c.state.DarkMode = !c.state.DarkMode
		if err := c.prefs.SetBool(ctx, prefs.KeyDarkMode, c.state.DarkMode); err != nil {
			c.log.Warn("saving dark mode preference", zap.Error(err))
		}
	case Search:
		c.state.SearchQuery = ev.Query
	case FetchSucceeded:
		c.fetchSucceeded(ev)
	case FetchFailed:
		c.fetchFailed(ev)
	default:
		c.log.Warn("unhandled event", zap.Any("event", ev))
	}
	return nil
}

func (c *Controller) selectSubject(key string) {
	s, err := c.reg.Subject(key)
	if err != nil {
		c.log.Warn("ignoring subject selection", zap.Error(err))
		return
	}
	kinds := s.FolderKinds()
	if len(kinds) == 0 {
		c.log.Warn("ignoring subject selection", zap.String("subject", key), zap.String("reason", "no folders"))
		return
	}
	c.state.SubjectKey = key
	c.state.Folder = kinds[0]
	c.revalidateIndex()
}

func (c *Controller) selectFolder(kind catalog.FolderKind) {
	if _, err := c.reg.GetFolder(c.state.SubjectKey, kind); err != nil {
		c.log.Warn("ignoring folder selection", zap.Error(err))
		return
	}
	c.state.Folder = kind
	c.revalidateIndex()
}

// revalidateIndex keeps FileIndex pointing into the active folder: it follows
// the current file if that file lives there and is cleared otherwise.
func (c *Controller) revalidateIndex() {
	c.state.FileIndex = -1
	if c.state.Current.IsZero() {
		return
	}
	pos, ok := c.reg.Lookup(c.state.Current.Path)
	if ok && pos.SubjectKey == c.state.SubjectKey && pos.Folder == c.state.Folder {
		c.state.FileIndex = pos.Index
	}
}

func (c *Controller) selectFile(ctx context.Context, ev SelectFile) Cmd {
	subject, folder := ev.Subject, ev.Folder
	if subject == "" {
		subject = c.state.SubjectKey
	}
	if folder == "" {
		folder = c.state.Folder
	}
	ref, err := c.reg.GetFileRef(subject, folder, ev.Index)
	if err != nil {
		c.log.Warn("ignoring file selection", zap.Error(err))
		return nil
	}
	c.state.SubjectKey = subject
	c.state.Folder = folder
	c.state.FileIndex = ev.Index
	return c.load(ctx, ref)
}

func (c *Controller) step(ctx context.Context, delta int) Cmd {
	if c.state.Phase != PhaseDisplaying {
		return nil
	}
	ref, ok := c.neighbour(delta)
	if !ok {
		return nil
	}
	c.state.FileIndex += delta
	return c.load(ctx, ref)
}

func (c *Controller) neighbour(delta int) (catalog.FileRef, bool) {
	if c.state.FileIndex < 0 {
		return catalog.FileRef{}, false
	}
	ref, err := c.reg.GetFileRef(c.state.SubjectKey, c.state.Folder, c.state.FileIndex+delta)
	if err != nil {
		return catalog.FileRef{}, false
	}
	return ref, true
}

// load shows ref, from the cache when possible. A fetch already in flight
// for the same file is reused.
func (c *Controller) load(ctx context.Context, ref catalog.FileRef) Cmd {
	if doc, ok := c.cache[ref.Path]; ok {
		c.supersede()
		c.state.Phase = PhaseDisplaying
		c.state.Current = ref
		c.state.Document = doc
		c.state.Failure = nil
		c.state.Message = ""
		return nil
	}
	if c.state.Phase == PhaseLoading && c.state.Current.Path == ref.Path {
		return nil
	}

	c.supersede()
	token := c.token

	var (
		fctx   context.Context
		cancel context.CancelFunc
	)
	if c.timeout > 0 {
		fctx, cancel = context.WithTimeout(ctx, c.timeout)
	} else {
		fctx, cancel = context.WithCancel(ctx)
	}
	c.cancelFetch = cancel

	c.state.Phase = PhaseLoading
	c.state.Current = ref
	c.state.Document = nil
	c.state.Failure = nil
	c.state.Message = ""

	c.log.Debug("fetching", zap.String("path", ref.Path), zap.Uint64("token", token))
	f := c.fetcher
	return func() Event {
		defer cancel()
		text, err := f.Fetch(fctx, ref)
		if err != nil {
			return FetchFailed{Token: token, Ref: ref, Err: err}
		}
		return FetchSucceeded{Token: token, Ref: ref, Text: text}
	}
}

// supersede invalidates the in-flight fetch, if any.
func (c *Controller) supersede() {
	c.token++
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

func (c *Controller) stale(token uint64, ref catalog.FileRef) bool {
	if token != c.token || c.state.Phase != PhaseLoading {
		c.log.Debug("discarding stale fetch result", zap.String("path", ref.Path), zap.Uint64("token", token))
		return true
	}
	return false
}

func (c *Controller) fetchSucceeded(ev FetchSucceeded) {
	if c.stale(ev.Token, ev.Ref) {
		return
	}
	c.cancelFetch = nil

	res := c.renderer.Render(ev.Text)
	if res.Fallback {
		c.log.Warn("markdown rendered as plain text", zap.String("path", ev.Ref.Path))
	}
	doc := &Document{
		Ref:      ev.Ref,
		Raw:      ev.Text,
		HTML:     res.HTML,
		TOC:      res.TOC,
		Title:    res.Title,
		Fallback: res.Fallback,
	}
	c.cache[ev.Ref.Path] = doc

	c.state.Phase = PhaseDisplaying
	c.state.Document = doc
	c.state.Failure = nil
	c.state.Message = ""
}

func (c *Controller) fetchFailed(ev FetchFailed) {
	if c.stale(ev.Token, ev.Ref) {
		return
	}
	c.cancelFetch = nil

	fe, ok := fetcher.AsError(ev.Err)
	if !ok {
		kind := fetcher.KindServer
		if errors.Is(ev.Err, context.Canceled) || errors.Is(ev.Err, context.DeadlineExceeded) {
			kind = fetcher.KindNetwork
		}
		fe = &fetcher.Error{Kind: kind, Path: ev.Ref.Path, Err: ev.Err}
	}
	c.log.Info("fetch failed", zap.String("path", ev.Ref.Path), zap.String("kind", string(fe.Kind)), zap.Error(ev.Err))

	c.state.Phase = PhaseError
	c.state.Document = nil
	c.state.Failure = fe
	c.state.Message = Explain(fe)
}
