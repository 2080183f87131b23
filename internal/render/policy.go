package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// newPolicy extends the UGC policy with what highlighted code and GFM task
// lists need. Scripts, event handlers and javascript: URLs are still removed.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowElements("pre", "code", "span", "div")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}
