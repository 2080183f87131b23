package render

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
)

// anchorIDs generates heading anchors for a single document. Duplicate slugs
// get -1, -2, ... suffixes in document order.
type anchorIDs struct {
	used map[string]bool
}

func newAnchorIDs() *anchorIDs {
	return &anchorIDs{used: make(map[string]bool)}
}

// Generate returns a unique anchor for value. Values without any slug
// characters fall back to "section" for headings.
func (a *anchorIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		if kind == ast.KindHeading {
			base = "section"
		} else {
			base = "id"
		}
	}
	id := base
	for i := 1; a.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	a.used[id] = true
	return []byte(id)
}

// Slugify lowercases s and keeps ASCII letters and digits, joining words
// with single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '\t', r == '.', r == '/':
			pendingDash = true
		}
	}
	return b.String()
}
