package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/navigator"
)

// handleListSubjects renders the catalog outline as markdown.
func (s *Server) handleListSubjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subjects := s.reg.ListSubjects()
	if key := request.GetString("subject", ""); key != "" {
		subject, err := s.reg.Subject(key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subjects = []catalog.Subject{subject}
	}

	var b strings.Builder
	for _, subject := range subjects {
		fmt.Fprintf(&b, "## %s (%s)\n\n", subject.DisplayName, subject.Key)
		kinds := subject.FolderKinds()
		if len(kinds) == 0 {
			b.WriteString("No folders.\n\n")
			continue
		}
		for _, kind := range kinds {
			f := subject.Folders[kind]
			fmt.Fprintf(&b, "### %s (`%s`)\n\n", f.DisplayName, kind)
			for i, ref := range f.Files {
				fmt.Fprintf(&b, "%d. `%s`", i, ref.Path)
				if ref.Size != "" {
					fmt.Fprintf(&b, " (%s)", ref.Size)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// resolveRef finds the document named by path or by subject, folder and index.
func (s *Server) resolveRef(request mcp.CallToolRequest) (catalog.FileRef, catalog.Position, error) {
	if p := request.GetString("path", ""); p != "" {
		pos, ok := s.reg.Lookup(p)
		if !ok {
			return catalog.FileRef{}, catalog.Position{}, fmt.Errorf("%s is not in the catalog", p)
		}
		ref, err := s.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index)
		return ref, pos, err
	}

	subject := request.GetString("subject", "")
	folder := request.GetString("folder", "")
	if subject == "" || folder == "" {
		return catalog.FileRef{}, catalog.Position{}, fmt.Errorf("provide path, or subject and folder")
	}
	kind, err := catalog.ParseFolderKind(folder)
	if err != nil {
		return catalog.FileRef{}, catalog.Position{}, err
	}
	pos := catalog.Position{SubjectKey: subject, Folder: kind, Index: request.GetInt("index", 0)}
	ref, err := s.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index)
	return ref, pos, err
}

func (s *Server) fetch(ctx context.Context, ref catalog.FileRef) (string, *mcp.CallToolResult) {
	text, err := s.fetcher.Fetch(ctx, ref)
	if err == nil {
		return text, nil
	}
	fe, ok := fetcher.AsError(err)
	if !ok {
		return "", mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", ref.Path, err))
	}
	return "", mcp.NewToolResultError(navigator.Explain(fe))
}

// handleGetDocument returns the raw markdown of a document.
func (s *Server) handleGetDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, pos, err := s.resolveRef(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, errResult := s.fetch(ctx, ref)
	if errResult != nil {
		return errResult, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<!-- %s | %s/%s #%d", ref.Path, pos.SubjectKey, pos.Folder, pos.Index)
	if prev, err := s.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index-1); err == nil {
		fmt.Fprintf(&b, " | prev: %s", prev.Path)
	}
	if next, err := s.reg.GetFileRef(pos.SubjectKey, pos.Folder, pos.Index+1); err == nil {
		fmt.Fprintf(&b, " | next: %s", next.Path)
	}
	b.WriteString(" -->\n\n")
	b.WriteString(text)
	return mcp.NewToolResultText(b.String()), nil
}

// handleGetOutline returns the heading tree of a document.
func (s *Server) handleGetOutline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := request.RequireString("path"); err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}
	ref, _, err := s.resolveRef(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, errResult := s.fetch(ctx, ref)
	if errResult != nil {
		return errResult, nil
	}

	res := s.renderer.Render(text)
	if len(res.TOC) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no headings.", ref.Path)), nil
	}
	var b strings.Builder
	for _, e := range res.TOC {
		fmt.Fprintf(&b, "%s- %s (#%s)\n", strings.Repeat("  ", e.Level-1), e.Text, e.Anchor)
	}
	return mcp.NewToolResultText(b.String()), nil
}

type searchHit struct {
	ref     catalog.FileRef
	where   string
	snippet string
}

// handleSearchCatalog matches names first, then document text.
func (s *Server) handleSearchCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}
	q := strings.ToLower(strings.TrimSpace(query))

	var hits []searchHit
	seen := make(map[string]bool)
	for _, subject := range s.reg.Filter(q) {
		for _, kind := range subject.FolderKinds() {
			for _, ref := range subject.Folders[kind].Files {
				if len(hits) >= limit {
					break
				}
				hits = append(hits, searchHit{ref: ref, where: "name"})
				seen[ref.Path] = true
			}
		}
	}

	for _, ref := range s.reg.Files() {
		if len(hits) >= limit {
			break
		}
		if seen[ref.Path] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := s.fetcher.Fetch(ctx, ref)
		if err != nil {
			continue
		}
		if snippet, ok := findSnippet(text, q); ok {
			hits = append(hits, searchHit{ref: ref, where: "text", snippet: snippet})
		}
	}

	if len(hits) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No matches for %q.", query)), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matches for %q:\n\n", len(hits), query)
	for i, h := range hits {
		fmt.Fprintf(&b, "%d. `%s` (%s match)\n", i+1, h.ref.Path, h.where)
		if h.snippet != "" {
			fmt.Fprintf(&b, "   > %s\n", h.snippet)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// findSnippet returns the first line containing q, which must be lower case.
func findSnippet(text, q string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), q) {
			line = strings.TrimSpace(line)
			if r := []rune(line); len(r) > 160 {
				line = string(r[:160]) + "..."
			}
			return line, true
		}
	}
	return "", false
}
