package catalog

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
)

// discoverPattern matches markdown files directly inside a known folder of a subject.
const discoverPattern = "*/{notes,questions,quiz,real-problems,interview-questions}/*.md"

// Discover builds a subject list from the layout of a content tree. Subjects
// are ordered by key and files by name.
func Discover(fsys fs.FS) ([]Subject, error) {
	matches, err := doublestar.Glob(fsys, discoverPattern)
	if err != nil {
		return nil, fmt.Errorf("globbing content: %w", err)
	}
	sort.Strings(matches)

	byKey := make(map[string]*Subject)
	var keys []string
	for _, m := range matches {
		parts := strings.Split(m, "/")
		if len(parts) != 3 || strings.HasPrefix(parts[0], ".") {
			continue
		}
		key, kind, name := parts[0], FolderKind(parts[1]), parts[2]

		s, ok := byKey[key]
		if !ok {
			s = &Subject{
				Key:         key,
				DisplayName: formatSubjectName(key),
				Icon:        "📘",
				BasePath:    key,
				Folders:     make(map[FolderKind]*Folder),
			}
			byKey[key] = s
			keys = append(keys, key)
		}
		f, ok := s.Folders[kind]
		if !ok {
			f = newFolder(kind)
			s.Folders[kind] = f
		}

		ref := FileRef{FileName: name, Path: path.Join(key, string(kind), name)}
		if info, err := fs.Stat(fsys, m); err == nil {
			ref.Size = humanize.Bytes(uint64(info.Size()))
		}
		f.Files = append(f.Files, ref)
	}

	sort.Strings(keys)
	subjects := make([]Subject, 0, len(keys))
	for _, k := range keys {
		subjects = append(subjects, *byKey[k])
	}
	return subjects, nil
}

// formatSubjectName turns a folder slug into a display name.
func formatSubjectName(key string) string {
	words := strings.FieldsFunc(key, func(c rune) bool {
		return c == '-' || c == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
