package tui

import (
	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/navigator"
)

type itemKind int

const (
	itemSubject itemKind = iota
	itemFolder
	itemFile
)

// item is one selectable sidebar row.
type item struct {
	kind    itemKind
	subject string
	folder  catalog.FolderKind
	index   int
	label   string
	path    string
}

// sidebarItems flattens the visible catalog. The active subject shows its
// folders and the active folder shows its files; while searching every match
// is expanded.
func sidebarItems(subjects []catalog.Subject, st navigator.State) []item {
	searching := st.SearchQuery != ""
	var out []item
	for _, s := range subjects {
		out = append(out, item{kind: itemSubject, subject: s.Key, label: s.Icon + " " + s.DisplayName})
		if !searching && s.Key != st.SubjectKey {
			continue
		}
		for _, kind := range s.FolderKinds() {
			f := s.Folders[kind]
			out = append(out, item{kind: itemFolder, subject: s.Key, folder: kind, label: f.Icon + " " + f.DisplayName})
			if !searching && kind != st.Folder {
				continue
			}
			for i, ref := range f.Files {
				index := i
				if searching {
					// Filtered folders are subsets, so resolve the real index.
					index = -1
				}
				out = append(out, item{kind: itemFile, subject: s.Key, folder: kind, index: index, label: ref.FileName, path: ref.Path})
			}
		}
	}
	return out
}

// events returns what activating it means to the controller.
func (it item) events(reg *catalog.Registry, st navigator.State) []navigator.Event {
	switch it.kind {
	case itemSubject:
		return []navigator.Event{navigator.SelectSubject{Key: it.subject}}
	case itemFolder:
		if it.subject != st.SubjectKey {
			return []navigator.Event{navigator.SelectSubject{Key: it.subject}, navigator.SelectFolder{Kind: it.folder}}
		}
		return []navigator.Event{navigator.SelectFolder{Kind: it.folder}}
	case itemFile:
		index := it.index
		if index < 0 {
			pos, ok := reg.Lookup(it.path)
			if !ok {
				return nil
			}
			index = pos.Index
		}
		return []navigator.Event{navigator.SelectFile{Subject: it.subject, Folder: it.folder, Index: index}}
	}
	return nil
}
