package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/db"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/prefs"
)

func notes(files ...string) *catalog.Folder {
	f := &catalog.Folder{Kind: catalog.KindNotes, DisplayName: "Notes"}
	for _, name := range files {
		f.Files = append(f.Files, catalog.FileRef{FileName: name, Path: "Go/notes/" + name})
	}
	return f
}

func setupTest(t *testing.T) (*Dashboard, string, *db.DB) {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Go", "notes"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, body := range map[string]string{
		"a.md": "# Alpha\n\n## Setup\n\n```go\nfmt.Println(1)\n```\n",
		"b.md": "# Beta\n",
	} {
		if err := os.WriteFile(filepath.Join(dir, "Go", "notes", name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	reg, err := catalog.New([]catalog.Subject{
		{Key: "Go", DisplayName: "Go", Icon: "🐹", Folders: map[catalog.FolderKind]*catalog.Folder{
			catalog.KindNotes: notes("a.md", "b.md", "missing.md"),
		}},
		{Key: "SQL", DisplayName: "SQL", Folders: map[catalog.FolderKind]*catalog.Folder{}},
	})
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	d := New(Options{
		Registry:     reg,
		Content:      os.DirFS(dir),
		Prefs:        prefs.NewSQLStore(database, prefs.DefaultScope),
		FetchTimeout: 5 * time.Second,
	})
	t.Cleanup(d.Close)
	return d, dir, database
}

func setupRouter(d *Dashboard) chi.Router {
	r := chi.NewRouter()
	d.RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestServeIndex(t *testing.T) {
	d, _, _ := setupTest(t)
	w := get(t, setupRouter(d), "/")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, got %q", ct)
	}
	page := w.Body.String()
	if !strings.Contains(page, "/ws/reload") {
		t.Error("expected index to open the reload socket")
	}
	// Paging follows the neighbours returned with each document.
	for _, want := range []string{"state.doc.next", "state.doc.prev", "subjectsToken"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected page script to reference %s", want)
		}
	}
}

func TestConfigEndpoint(t *testing.T) {
	d, _, _ := setupTest(t)
	w := get(t, setupRouter(d), "/api/config")

	var cfg configResponse
	decode(t, w, &cfg)
	if cfg.FetchTimeoutMS != 5000 {
		t.Errorf("expected 5000ms, got %d", cfg.FetchTimeoutMS)
	}
}

func TestSubjectsEndpoint(t *testing.T) {
	d, _, _ := setupTest(t)
	r := setupRouter(d)

	var all []subjectResponse
	decode(t, get(t, r, "/api/subjects"), &all)
	if len(all) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(all))
	}
	if all[0].Key != "Go" || all[0].Icon != "🐹" {
		t.Errorf("unexpected first subject: %+v", all[0])
	}
	if len(all[0].Folders) != 1 || len(all[0].Folders[0].Files) != 3 {
		t.Errorf("unexpected folders: %+v", all[0].Folders)
	}
	if all[1].Folders == nil {
		t.Error("expected empty folders to encode as a list")
	}

	var filtered []subjectResponse
	decode(t, get(t, r, "/api/subjects?q=sql"), &filtered)
	if len(filtered) != 1 || filtered[0].Key != "SQL" {
		t.Errorf("expected only SQL, got %+v", filtered)
	}
}

func TestDocumentEndpoint(t *testing.T) {
	d, _, _ := setupTest(t)
	w := get(t, setupRouter(d), "/api/documents/Go/notes/a.md")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var doc documentResponse
	decode(t, w, &doc)

	if doc.Title != "Alpha" {
		t.Errorf("expected title Alpha, got %q", doc.Title)
	}
	if doc.Subject != "Go" || doc.Folder != catalog.KindNotes || doc.Index != 0 {
		t.Errorf("unexpected position: %s/%s/%d", doc.Subject, doc.Folder, doc.Index)
	}
	if len(doc.TOC) != 2 || doc.TOC[1].Anchor != "setup" {
		t.Errorf("unexpected toc: %+v", doc.TOC)
	}
	if !strings.Contains(doc.HTML, `id="setup"`) {
		t.Errorf("expected heading anchor in html: %s", doc.HTML)
	}
	if doc.Prev != nil {
		t.Errorf("expected no previous file, got %+v", doc.Prev)
	}
	if doc.Next == nil || doc.Next.Path != "Go/notes/b.md" {
		t.Errorf("expected next b.md, got %+v", doc.Next)
	}
}

// The sidebar search narrows the subject list, but a document's position and
// neighbours always come from the full folder.
func TestDocumentPositionIgnoresSearch(t *testing.T) {
	d, _, _ := setupTest(t)
	r := setupRouter(d)

	var filtered []subjectResponse
	decode(t, get(t, r, "/api/subjects?q=b.md"), &filtered)
	if len(filtered) != 1 || len(filtered[0].Folders) != 1 || len(filtered[0].Folders[0].Files) != 1 {
		t.Fatalf("expected a single matching file, got %+v", filtered)
	}
	hit := filtered[0].Folders[0].Files[0]

	var doc documentResponse
	decode(t, get(t, r, "/api/documents/"+hit.Path+"?q=b.md"), &doc)
	if doc.Index != 1 {
		t.Errorf("expected catalog index 1, got %d", doc.Index)
	}
	if doc.Prev == nil || doc.Prev.Path != "Go/notes/a.md" {
		t.Errorf("expected prev a.md, got %+v", doc.Prev)
	}
	if doc.Next == nil || doc.Next.Path != "Go/notes/missing.md" {
		t.Errorf("expected next missing.md, got %+v", doc.Next)
	}

	// Stepping from the neighbour lands back in folder order.
	var prev documentResponse
	decode(t, get(t, r, "/api/documents/"+doc.Prev.Path), &prev)
	if prev.Index != 0 || prev.Next == nil || prev.Next.Path != hit.Path {
		t.Errorf("expected a.md at 0 followed by b.md, got %d %+v", prev.Index, prev.Next)
	}
}

func TestDocumentNotFound(t *testing.T) {
	d, _, _ := setupTest(t)
	r := setupRouter(d)

	tests := []struct {
		name   string
		target string
	}{
		{"not in catalog", "/api/documents/Go/notes/nope.md"},
		{"missing on disk", "/api/documents/Go/notes/missing.md"},
		{"escaping root", "/api/documents/../../etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, r, tt.target)
			if w.Code != http.StatusNotFound {
				t.Fatalf("expected 404, got %d", w.Code)
			}
			var e errorResponse
			decode(t, w, &e)
			if e.Kind != fetcher.KindNotFound {
				t.Errorf("expected kind not_found, got %q", e.Kind)
			}
		})
	}
}

func TestDocumentCachedUntilInvalidated(t *testing.T) {
	d, dir, _ := setupTest(t)
	r := setupRouter(d)

	var first documentResponse
	decode(t, get(t, r, "/api/documents/Go/notes/b.md"), &first)

	if err := os.WriteFile(filepath.Join(dir, "Go", "notes", "b.md"), []byte("# Beta 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var cached documentResponse
	decode(t, get(t, r, "/api/documents/Go/notes/b.md"), &cached)
	if cached.Title != "Beta" {
		t.Errorf("expected cached title Beta, got %q", cached.Title)
	}

	d.Invalidate("Go/notes/b.md")

	var fresh documentResponse
	decode(t, get(t, r, "/api/documents/Go/notes/b.md"), &fresh)
	if fresh.Title != "Beta 2" {
		t.Errorf("expected fresh title Beta 2, got %q", fresh.Title)
	}
	if fresh.Prev == nil || fresh.Prev.Path != "Go/notes/a.md" {
		t.Errorf("expected prev a.md, got %+v", fresh.Prev)
	}
}

func TestStylesEndpoint(t *testing.T) {
	d, _, _ := setupTest(t)
	r := setupRouter(d)

	light := get(t, r, "/api/styles.css?theme=light")
	dark := get(t, r, "/api/styles.css?theme=dark")

	if ct := light.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Errorf("expected text/css, got %q", ct)
	}
	if !strings.Contains(light.Body.String(), ".chroma") {
		t.Error("expected chroma classes in stylesheet")
	}
	if light.Body.String() == dark.Body.String() {
		t.Error("expected light and dark stylesheets to differ")
	}
}

func TestContentServesMarkdown(t *testing.T) {
	d, _, _ := setupTest(t)
	w := get(t, setupRouter(d), "/content/Go/notes/a.md")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("expected text/markdown, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "# Alpha") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func darkModeRequest(method, origin, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/preferences/dark-mode", strings.NewReader(body))
	req.Header.Set("Origin", origin)
	return req
}

func TestDarkModePersistedPerOrigin(t *testing.T) {
	d, _, database := setupTest(t)
	r := setupRouter(d)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, darkModeRequest(http.MethodPut, "http://localhost:8080", `{"dark_mode":true}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	read := func(r http.Handler, origin string) bool {
		t.Helper()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, darkModeRequest(http.MethodGet, origin, ""))
		var body darkModeBody
		decode(t, w, &body)
		return body.DarkMode
	}

	if !read(r, "http://localhost:8080") {
		t.Error("expected dark mode on for the saving origin")
	}
	if read(r, "http://localhost:9090") {
		t.Error("expected dark mode off for another origin")
	}

	// A new dashboard over the same database sees the saved value.
	again := New(Options{Registry: d.reg, Content: d.content, Prefs: prefs.NewSQLStore(database, prefs.DefaultScope)})
	defer again.Close()
	if !read(setupRouter(again), "http://localhost:8080") {
		t.Error("expected dark mode to survive a restart")
	}
}

func TestPutDarkModeRejectsBadBody(t *testing.T) {
	d, _, _ := setupTest(t)
	r := setupRouter(d)

	for _, body := range []string{"", "not json", `{"darkMode":true}`} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, darkModeRequest(http.MethodPut, "http://localhost:8080", body))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func dialReload(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/reload"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var hello ReloadMessage
	readMessage(t, conn, &hello)
	if hello.Type != MessageHello || hello.ClientID == "" {
		t.Fatalf("unexpected greeting: %+v", hello)
	}
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn, v interface{}) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(v); err != nil {
		t.Fatalf("reading message: %v", err)
	}
}

func TestReloadBroadcast(t *testing.T) {
	d, _, _ := setupTest(t)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	first := dialReload(t, server)
	second := dialReload(t, server)
	if n := d.Hub().Len(); n != 2 {
		t.Fatalf("expected 2 clients, got %d", n)
	}

	d.Invalidate("Go/notes/a.md")

	for _, conn := range []*websocket.Conn{first, second} {
		var msg ReloadMessage
		readMessage(t, conn, &msg)
		if msg.Type != MessageChanged || msg.Path != "Go/notes/a.md" {
			t.Errorf("unexpected message: %+v", msg)
		}
	}
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	d, _, _ := setupTest(t)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	conn := dialReload(t, server)
	d.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected connection to close")
	}
	if n := d.Hub().Len(); n != 0 {
		t.Errorf("expected no clients, got %d", n)
	}
}

func TestWatcherBroadcastsChanges(t *testing.T) {
	d, dir, _ := setupTest(t)
	server := httptest.NewServer(setupRouter(d))
	defer server.Close()

	w, err := d.NewWatcher(dir)
	if err != nil {
		t.Fatalf("creating watcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	conn := dialReload(t, server)

	if err := os.WriteFile(filepath.Join(dir, "Go", "notes", "a.md"), []byte("# Alpha 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for {
		var msg ReloadMessage
		readMessage(t, conn, &msg)
		if msg.Type == MessageChanged && msg.Path == "Go/notes/a.md" {
			break
		}
	}
}

func TestOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://hub.local:8080/api/preferences/dark-mode", nil)
	if got := origin(req); got != "http://hub.local:8080" {
		t.Errorf("expected host-derived origin, got %q", got)
	}
	req.Header.Set("Origin", "http://localhost:3000")
	if got := origin(req); got != "http://localhost:3000" {
		t.Errorf("expected Origin header, got %q", got)
	}
}
