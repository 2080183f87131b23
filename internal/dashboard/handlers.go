package dashboard

import (
	"encoding/json"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/prefs"
	"github.com/ziadkadry99/learnhub/internal/render"
)

type configResponse struct {
	FetchTimeoutMS int64 `json:"fetch_timeout_ms"`
}

type folderResponse struct {
	Kind  catalog.FolderKind `json:"kind"`
	Name  string             `json:"name"`
	Icon  string             `json:"icon"`
	Files []catalog.FileRef  `json:"files"`
}

type subjectResponse struct {
	Key     string           `json:"key"`
	Name    string           `json:"name"`
	Icon    string           `json:"icon"`
	Folders []folderResponse `json:"folders"`
}

// documentResponse is a rendered document plus its place in the catalog.
type documentResponse struct {
	Path     string             `json:"path"`
	Subject  string             `json:"subject"`
	Folder   catalog.FolderKind `json:"folder"`
	Index    int                `json:"index"`
	Title    string             `json:"title"`
	HTML     string             `json:"html"`
	TOC      []render.TOCEntry  `json:"toc"`
	Fallback bool               `json:"fallback,omitempty"`
	Prev     *catalog.FileRef   `json:"prev,omitempty"`
	Next     *catalog.FileRef   `json:"next,omitempty"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Kind  fetcher.Kind `json:"kind,omitempty"`
}

type darkModeBody struct {
	DarkMode bool `json:"dark_mode"`
}

func (d *Dashboard) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{FetchTimeoutMS: d.fetchTimeout.Milliseconds()})
}

func (d *Dashboard) handleSubjects(w http.ResponseWriter, r *http.Request) {
	subjects := d.reg.Filter(r.URL.Query().Get("q"))

	out := make([]subjectResponse, 0, len(subjects))
	for _, s := range subjects {
		sr := subjectResponse{Key: s.Key, Name: s.DisplayName, Icon: s.Icon, Folders: []folderResponse{}}
		for _, kind := range s.FolderKinds() {
			f := s.Folders[kind]
			sr.Folders = append(sr.Folders, folderResponse{Kind: kind, Name: f.DisplayName, Icon: f.Icon, Files: f.Files})
		}
		out = append(out, sr)
	}
	writeJSON(w, http.StatusOK, out)
}

func (d *Dashboard) handleDocument(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + chi.URLParam(r, "*"))[1:]

	pos, ok := d.reg.Lookup(p)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not in catalog: " + p, Kind: fetcher.KindNotFound})
		return
	}

	if cached, found := d.cache.Get(p); found {
		writeJSON(w, http.StatusOK, cached.(*documentResponse))
		return
	}

	ref, err := d.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	text, err := d.fetcher.Fetch(r.Context(), ref)
	if err != nil {
		kind := fetcher.KindOf(err)
		status := http.StatusInternalServerError
		if kind == fetcher.KindNotFound {
			status = http.StatusNotFound
		}
		d.log.Warn("reading document", zap.String("path", p), zap.Error(err))
		writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
		return
	}

	res := d.renderer.Render(text)
	doc := &documentResponse{
		Path:     p,
		Subject:  pos.SubjectKey,
		Folder:   pos.Folder,
		Index:    pos.Index,
		Title:    res.Title,
		HTML:     res.HTML,
		TOC:      res.TOC,
		Fallback: res.Fallback,
	}
	if prev, err := d.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index-1); err == nil {
		doc.Prev = &prev
	}
	if next, err := d.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index+1); err == nil {
		doc.Next = &next
	}
	d.cache.SetDefault(p, doc)
	writeJSON(w, http.StatusOK, doc)
}

func (d *Dashboard) handleStyles(w http.ResponseWriter, r *http.Request) {
	css, err := d.renderer.StyleCSS(r.URL.Query().Get("theme") == "dark")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.WriteString(w, css)
}

// store returns the preference store for the requesting origin.
func (d *Dashboard) store(r *http.Request) *prefs.SQLStore {
	return d.prefs.WithScope(origin(r))
}

func origin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" {
		return o
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (d *Dashboard) handleGetDarkMode(w http.ResponseWriter, r *http.Request) {
	if d.prefs == nil {
		writeJSON(w, http.StatusOK, darkModeBody{})
		return
	}
	v, _, err := d.store(r).Bool(r.Context(), prefs.KeyDarkMode)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, darkModeBody{DarkMode: v})
}

func (d *Dashboard) handlePutDarkMode(w http.ResponseWriter, r *http.Request) {
	var body darkModeBody
	dec := json.NewDecoder(io.LimitReader(r.Body, 1024))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body: " + err.Error()})
		return
	}
	if d.prefs == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "preferences are not persisted"})
		return
	}
	if err := d.store(r).SetBool(r.Context(), prefs.KeyDarkMode, body.DarkMode); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// contentHandler serves the raw markdown tree under /content/.
func (d *Dashboard) contentHandler() http.Handler {
	files := http.StripPrefix("/content/", http.FileServer(http.FS(d.content)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".md") {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		}
		files.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
