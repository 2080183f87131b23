package site

import (
	"fmt"
	"html"
	"strings"

	"github.com/ziadkadry99/learnhub/internal/catalog"
)

// NavNode is a node of the sidebar: a subject, a folder or a file.
type NavNode struct {
	Name  string
	Title string
	Icon  string
	// Path is the catalog path for files and the directory path otherwise,
	// e.g. "Java8-Plus" or "Java8-Plus/notes".
	Path     string
	IsDir    bool
	Children []*NavNode
}

// BuildTree lays the catalog out as subjects, then folders in canonical
// order, then files in catalog order. Nothing is re-sorted because file order
// drives next/previous.
func BuildTree(reg *catalog.Registry) *NavNode {
	root := &NavNode{Name: "catalog", IsDir: true}
	for _, s := range reg.ListSubjects() {
		sn := &NavNode{Name: s.Key, Title: s.DisplayName, Icon: s.Icon, Path: s.BasePath, IsDir: true}
		for _, kind := range s.FolderKinds() {
			f := s.Folders[kind]
			fn := &NavNode{
				Name:  string(kind),
				Title: f.DisplayName,
				Icon:  f.Icon,
				Path:  s.BasePath + "/" + string(kind),
				IsDir: true,
			}
			for _, ref := range f.Files {
				fn.Children = append(fn.Children, &NavNode{Name: ref.FileName, Title: cleanDisplayName(ref.FileName), Path: ref.Path})
			}
			sn.Children = append(sn.Children, fn)
		}
		root.Children = append(root.Children, sn)
	}
	return root
}

// ToHTML renders the tree as nested lists. basePath is the relative prefix
// back to the site root, e.g. "../../" for a page two levels deep.
func (t *NavNode) ToHTML(activePath, basePath string) string {
	activeAncestors := computeActiveAncestors(activePath)

	var b strings.Builder
	homeActive := ""
	if activePath == "" {
		homeActive = ` class="active"`
	}
	fmt.Fprintf(&b, `<ul><li class="file home-link"><a href="%sindex.html"%s>Home</a></li></ul>`+"\n", basePath, homeActive)

	renderChildren(&b, t, activePath, basePath, activeAncestors)
	return b.String()
}

// computeActiveAncestors returns the directory paths above activePath.
// For "Go/notes/a.md" it returns {"Go", "Go/notes"}.
func computeActiveAncestors(activePath string) map[string]bool {
	ancestors := make(map[string]bool)
	parts := strings.Split(activePath, "/")
	for i := 1; i < len(parts); i++ {
		ancestors[strings.Join(parts[:i], "/")] = true
	}
	return ancestors
}

func renderChildren(b *strings.Builder, node *NavNode, activePath, basePath string, activeAncestors map[string]bool) {
	if len(node.Children) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, child := range node.Children {
		label := html.EscapeString(strings.TrimSpace(child.Icon + " " + child.Title))
		if child.IsDir {
			expanded := ""
			if activeAncestors[child.Path] {
				expanded = "expanded"
			}
			fmt.Fprintf(b, `<li class="dir %s"><span class="dir-toggle">%s</span>`+"\n", expanded, label)
			renderChildren(b, child, activePath, basePath, activeAncestors)
			b.WriteString("</li>\n")
			continue
		}
		activeClass := ""
		if child.Path == activePath {
			activeClass = ` class="active"`
		}
		fmt.Fprintf(b, `<li class="file"><a href="%s"%s>%s</a></li>`+"\n",
			html.EscapeString(basePath+mdPathToHTML(child.Path)), activeClass, label)
	}
	b.WriteString("</ul>\n")
}

// mdPathToHTML converts a markdown path to its page path.
func mdPathToHTML(p string) string {
	if strings.HasSuffix(p, ".md") {
		return strings.TrimSuffix(p, ".md") + ".html"
	}
	return p
}

// cleanDisplayName strips the .md extension.
func cleanDisplayName(name string) string {
	return strings.TrimSuffix(name, ".md")
}
