// Package content ships the markdown tree referenced by the built-in catalog.
package content

import (
	"embed"
	"io/fs"
)

//go:embed Java8-Plus React-TypeScript Spring-Boot Oracle-SQL
var files embed.FS

// FS returns the embedded content tree rooted at the subject folders.
func FS() fs.FS { return files }
