// Package render turns markdown into sanitized HTML plus a table of contents.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

const (
	DefaultLightStyle = "github"
	DefaultDarkStyle  = "github-dark"
)

// TOCEntry is one heading in document order.
type TOCEntry struct {
	Text   string `json:"text"`
	Anchor string `json:"anchor"`
	Level  int    `json:"level"`
}

// Result is the output of Render.
type Result struct {
	HTML  string     `json:"html"`
	TOC   []TOCEntry `json:"toc"`
	Title string     `json:"title,omitempty"`
	// Fallback is set when the markdown could not be rendered and HTML holds
	// the escaped source instead.
	Fallback bool `json:"fallback,omitempty"`
}

// Renderer converts markdown to inert HTML. It is safe for concurrent use.
type Renderer struct {
	md         goldmark.Markdown
	policy     *bluemonday.Policy
	lightStyle string
	darkStyle  string
	extensions []goldmark.Extender
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithStyles sets the chroma styles used for the light and dark themes.
func WithStyles(light, dark string) Option {
	return func(r *Renderer) {
		if light != "" {
			r.lightStyle = light
		}
		if dark != "" {
			r.darkStyle = dark
		}
	}
}

// WithExtensions adds goldmark extensions after the built-in ones.
func WithExtensions(exts ...goldmark.Extender) Option {
	return func(r *Renderer) { r.extensions = append(r.extensions, exts...) }
}

// New builds a Renderer with GFM, class-based code highlighting and a
// sanitizing policy.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		lightStyle: DefaultLightStyle,
		darkStyle:  DefaultDarkStyle,
	}
	for _, o := range opts {
		o(r)
	}

	exts := []goldmark.Extender{
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle(r.lightStyle),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	}
	exts = append(exts, r.extensions...)

	r.md = goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(
			// Raw HTML is passed through here and removed by the policy below.
			goldhtml.WithUnsafe(),
		),
	)
	r.policy = newPolicy()
	return r
}

// Render converts markdown to sanitized HTML and derives the table of
// contents. It never panics; on failure the escaped source is returned with
// Fallback set.
func (r *Renderer) Render(markdown string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res = fallback(markdown)
		}
	}()

	src := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(src))
	res.TOC = assignAnchors(doc, src)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return fallback(markdown)
	}

	for _, e := range res.TOC {
		if e.Level == 1 {
			res.Title = e.Text
			break
		}
	}
	res.HTML = r.policy.Sanitize(buf.String())
	return res
}

// StyleCSS returns the chroma stylesheet for the light or dark theme.
func (r *Renderer) StyleCSS(dark bool) (string, error) {
	name := r.lightStyle
	if dark {
		name = r.darkStyle
	}
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return "", fmt.Errorf("writing %s css: %w", name, err)
	}
	return buf.String(), nil
}

func fallback(markdown string) Result {
	return Result{
		HTML:     "<pre>" + html.EscapeString(markdown) + "</pre>",
		TOC:      []TOCEntry{},
		Fallback: true,
	}
}

// assignAnchors gives every heading an id derived from its visible text and
// returns the headings in document order.
func assignAnchors(doc ast.Node, src []byte) []TOCEntry {
	ids := newAnchorIDs()
	toc := []TOCEntry{}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := strings.Join(strings.Fields(nodeText(h, src)), " ")
		anchor := ids.Generate([]byte(title), ast.KindHeading)
		h.SetAttributeString("id", anchor)
		toc = append(toc, TOCEntry{Text: title, Anchor: string(anchor), Level: h.Level})
		return ast.WalkSkipChildren, nil
	})
	return toc
}

// nodeText concatenates the visible text below n. Raw HTML tags are skipped,
// as is anything between a raw <script> or <style> tag and its closing tag.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	skipUntil := ""
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if raw, ok := c.(*ast.RawHTML); ok {
			tag := strings.ToLower(rawText(raw, src))
			switch {
			case skipUntil != "":
				if strings.HasPrefix(tag, skipUntil) {
					skipUntil = ""
				}
			case strings.HasPrefix(tag, "<script"):
				skipUntil = "</script"
			case strings.HasPrefix(tag, "<style"):
				skipUntil = "</style"
			}
			continue
		}
		if skipUntil != "" {
			continue
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, src))
		}
	}
	return b.String()
}

func rawText(n *ast.RawHTML, src []byte) string {
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}
