// Package site exports the catalog as a static HTML site that works from any
// file server, including plain file:// browsing.
package site

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/logging"
	"github.com/ziadkadry99/learnhub/internal/navigator"
	"github.com/ziadkadry99/learnhub/internal/progress"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// DefaultTitle is the site name used when none is configured.
const DefaultTitle = "Learning Hub"

// Generator renders every catalog file to a page under OutputDir.
type Generator struct {
	Registry  *catalog.Registry
	Content   fs.FS
	OutputDir string
	Title     string
	Renderer  *render.Renderer
	// Concurrency bounds how many pages render at once.
	Concurrency int
	Reporter    progress.Reporter
	Logger      *zap.Logger
}

// Stats summarizes an export.
type Stats struct {
	Pages int
	// Missing lists catalog paths with no file behind them. Each still gets
	// a page explaining the problem.
	Missing []string
	Bytes   int64
}

// NewGenerator creates a Generator with default settings.
func NewGenerator(reg *catalog.Registry, content fs.FS, outputDir string) *Generator {
	return &Generator{
		Registry:    reg,
		Content:     content,
		OutputDir:   outputDir,
		Title:       DefaultTitle,
		Concurrency: 4,
	}
}

type pageLink struct {
	Href  string
	Title string
}

// pageData holds the data passed to the page template.
type pageData struct {
	Title     string
	SiteTitle string
	Subject   string
	Folder    string
	Content   template.HTML
	TreeHTML  template.HTML
	TOC       []render.TOCEntry
	BasePath  string
	Prev      *pageLink
	Next      *pageLink
	Fallback  bool
	Missing   bool
}

// Generate builds the full site.
func (g *Generator) Generate(ctx context.Context) (Stats, error) {
	files := g.Registry.Files()
	if len(files) == 0 {
		return Stats{}, fmt.Errorf("catalog has no files")
	}

	renderer := g.Renderer
	if renderer == nil {
		renderer = render.New()
	}
	reporter := g.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	log := logging.OrNop(g.Logger)
	limit := g.Concurrency
	if limit < 1 {
		limit = 1
	}

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return Stats{}, err
	}
	if err := g.writeAssets(renderer); err != nil {
		return Stats{}, err
	}

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return Stats{}, fmt.Errorf("parsing page template: %w", err)
	}
	tree := BuildTree(g.Registry)
	source := fetcher.NewFSFetcher(g.Content)

	var (
		written  atomic.Int64
		mu       sync.Mutex
		done     int
		missing  []string
		searched = make([]*SearchEntry, len(files))
	)

	reporter.Start(len(files))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, ref := range files {
		eg.Go(func() error {
			entry, n, err := g.renderPage(egctx, source, renderer, tmpl, tree, ref)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", ref.Path, err)
			}
			written.Add(n)
			searched[i] = entry

			mu.Lock()
			defer mu.Unlock()
			if entry == nil {
				missing = append(missing, ref.Path)
				log.Warn("catalog file missing", zap.String("path", ref.Path))
			}
			done++
			reporter.Update(done, ref.Path)
			return nil
		})
	}
	err = eg.Wait()
	reporter.Finish()
	if err != nil {
		return Stats{}, err
	}

	n, err := g.writeIndex(tmpl, tree)
	if err != nil {
		return Stats{}, fmt.Errorf("writing index: %w", err)
	}
	written.Add(n)

	entries := make([]SearchEntry, 0, len(searched))
	for _, e := range searched {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	if err := WriteSearchIndex(entries, filepath.Join(g.OutputDir, "search-index.json")); err != nil {
		return Stats{}, fmt.Errorf("writing search index: %w", err)
	}

	return Stats{Pages: len(files) + 1, Missing: missing, Bytes: written.Load()}, nil
}

func (g *Generator) writeAssets(renderer *render.Renderer) error {
	light, err := renderer.StyleCSS(false)
	if err != nil {
		return err
	}
	dark, err := renderer.StyleCSS(true)
	if err != nil {
		return err
	}
	assets := map[string]string{
		"style.css":        cssContent,
		"script.js":        jsContent,
		"chroma-light.css": light,
		"chroma-dark.css":  dark,
	}
	for name, body := range assets {
		if err := os.WriteFile(filepath.Join(g.OutputDir, name), []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// renderPage writes the page for ref. The returned entry is nil when the
// file is missing and an explanatory page was written instead.
func (g *Generator) renderPage(ctx context.Context, source fetcher.Fetcher, renderer *render.Renderer, tmpl *template.Template, tree *NavNode, ref catalog.FileRef) (*SearchEntry, int64, error) {
	pos, _ := g.Registry.Lookup(ref.Path)
	subject, err := g.Registry.Subject(pos.SubjectKey)
	if err != nil {
		return nil, 0, err
	}

	htmlRelPath := mdPathToHTML(ref.Path)
	basePath := strings.Repeat("../", strings.Count(htmlRelPath, "/"))

	data := pageData{
		Title:     cleanDisplayName(ref.FileName),
		SiteTitle: g.Title,
		Subject:   subject.DisplayName,
		Folder:    pos.Folder.DisplayName(),
		TreeHTML:  template.HTML(tree.ToHTML(ref.Path, basePath)),
		TOC:       []render.TOCEntry{},
		BasePath:  basePath,
	}
	if prev, err := g.Registry.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index-1); err == nil {
		data.Prev = &pageLink{Href: basePath + mdPathToHTML(prev.Path), Title: cleanDisplayName(prev.FileName)}
	}
	if next, err := g.Registry.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index+1); err == nil {
		data.Next = &pageLink{Href: basePath + mdPathToHTML(next.Path), Title: cleanDisplayName(next.FileName)}
	}

	var entry *SearchEntry
	text, err := source.Fetch(ctx, ref)
	switch {
	case err == nil:
		res := renderer.Render(text)
		if res.Title != "" {
			data.Title = res.Title
		}
		data.Content = template.HTML(rewriteMDLinks(res.HTML))
		data.TOC = res.TOC
		data.Fallback = res.Fallback
		e := newSearchEntry(htmlRelPath, data.Title, subject.DisplayName, data.Folder, text)
		entry = &e
	case fetcher.KindOf(err) == fetcher.KindNotFound:
		fe, _ := fetcher.AsError(err)
		data.Missing = true
		data.Content = template.HTML("<p>" + html.EscapeString(navigator.Explain(fe)) + "</p>")
	default:
		return nil, 0, err
	}

	n, err := g.writePage(tmpl, htmlRelPath, data)
	return entry, n, err
}

func (g *Generator) writeIndex(tmpl *template.Template, tree *NavNode) (int64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n<ul class=\"subject-list\">\n", html.EscapeString(g.Title))
	for _, s := range g.Registry.ListSubjects() {
		count := 0
		first := ""
		for _, kind := range s.FolderKinds() {
			files := s.Folders[kind].Files
			if first == "" && len(files) > 0 {
				first = files[0].Path
			}
			count += len(files)
		}
		label := html.EscapeString(strings.TrimSpace(s.Icon + " " + s.DisplayName))
		if first == "" {
			fmt.Fprintf(&b, "<li>%s <small>(empty)</small></li>\n", label)
			continue
		}
		fmt.Fprintf(&b, "<li><a href=\"%s\">%s</a> <small>%d files</small></li>\n",
			html.EscapeString(mdPathToHTML(first)), label, count)
	}
	b.WriteString("</ul>\n")

	return g.writePage(tmpl, "index.html", pageData{
		Title:     "Home",
		SiteTitle: g.Title,
		Content:   template.HTML(b.String()),
		TreeHTML:  template.HTML(tree.ToHTML("", "")),
		TOC:       []render.TOCEntry{},
	})
}

func (g *Generator) writePage(tmpl *template.Template, relPath string, data pageData) (int64, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return 0, err
	}
	outPath := filepath.Join(g.OutputDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return 0, err
	}
	return int64(buf.Len()), nil
}

// rewriteMDLinks points relative .md links at the exported .html pages.
func rewriteMDLinks(content string) string {
	var b strings.Builder
	rest := content
	for {
		idx := strings.Index(rest, `href="`)
		if idx == -1 {
			b.WriteString(rest)
			break
		}
		start := idx + len(`href="`)
		end := strings.IndexByte(rest[start:], '"')
		if end == -1 {
			b.WriteString(rest)
			break
		}
		href := rest[start : start+end]
		b.WriteString(rest[:start])
		b.WriteString(rewriteHref(href))
		rest = rest[start+end:]
	}
	return b.String()
}

func rewriteHref(href string) string {
	if strings.Contains(href, "://") || strings.HasPrefix(href, "mailto:") {
		return href
	}
	target, frag, _ := strings.Cut(href, "#")
	if !strings.HasSuffix(target, ".md") {
		return href
	}
	out := mdPathToHTML(target)
	if frag != "" {
		out += "#" + frag
	}
	return out
}
