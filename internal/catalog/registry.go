package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned when a subject key or folder kind is not registered.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange is returned when a file index falls outside a folder.
	ErrOutOfRange = errors.New("index out of range")
)

// Registry is the validated, immutable subject/folder/file tree. It is safe
// for concurrent readers. New takes its own copy of the subjects, and every
// accessor returns copies, so callers may modify what they receive.
type Registry struct {
	subjects []Subject
	byKey    map[string]int
	byPath   map[string]Position
}

// New validates subjects and builds a Registry. Every structural problem is
// reported, not just the first.
func New(subjects []Subject) (*Registry, error) {
	r := &Registry{
		byKey:  make(map[string]int, len(subjects)),
		byPath: make(map[string]Position),
	}

	var errs []error
	for i, s := range subjects {
		if s.Key == "" {
			errs = append(errs, fmt.Errorf("subject %d: key is required", i))
			continue
		}
		if _, dup := r.byKey[s.Key]; dup {
			errs = append(errs, fmt.Errorf("subject %q: duplicate key", s.Key))
			continue
		}
		if s.BasePath == "" {
			s.BasePath = s.Key
		}
		if s.DisplayName == "" {
			s.DisplayName = s.Key
		}

		folders := make(map[FolderKind]*Folder, len(s.Folders))
		for _, kind := range folderOrder(s.Folders) {
			folder := s.Folders[kind]
			if !kind.Valid() {
				errs = append(errs, fmt.Errorf("subject %q: unknown folder kind %q", s.Key, kind))
				continue
			}
			if folder == nil {
				errs = append(errs, fmt.Errorf("subject %q: folder %q is nil", s.Key, kind))
				continue
			}
			folder = folder.clone()
			if folder.Kind == "" {
				folder.Kind = kind
			}
			if folder.Kind != kind {
				errs = append(errs, fmt.Errorf("subject %q: folder of kind %q registered under %q", s.Key, folder.Kind, kind))
				continue
			}
			for idx, f := range folder.Files {
				if err := checkFileRef(s, kind, f); err != nil {
					errs = append(errs, err)
					continue
				}
				if prev, dup := r.byPath[f.Path]; dup {
					errs = append(errs, fmt.Errorf("%s: also registered under %s/%s", f.Path, prev.SubjectKey, prev.Folder))
					continue
				}
				r.byPath[f.Path] = Position{SubjectKey: s.Key, Folder: kind, Index: idx}
			}
			folders[kind] = folder
		}
		s.Folders = folders

		r.byKey[s.Key] = len(r.subjects)
		r.subjects = append(r.subjects, s)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return r, nil
}

// folderOrder lists the keys of folders with known kinds first, in canonical
// order, followed by unknown kinds sorted by name.
func folderOrder(folders map[FolderKind]*Folder) []FolderKind {
	var known, unknown []FolderKind
	for _, k := range folderKinds {
		if _, ok := folders[k]; ok {
			known = append(known, k)
		}
	}
	for k := range folders {
		if !k.Valid() {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return append(known, unknown...)
}

func checkFileRef(s Subject, kind FolderKind, f FileRef) error {
	if f.FileName == "" {
		return fmt.Errorf("subject %q folder %q: file name is required", s.Key, kind)
	}
	if !strings.HasSuffix(f.FileName, ".md") {
		return fmt.Errorf("%s/%s/%s: not a markdown file", s.BasePath, kind, f.FileName)
	}
	want := path.Join(s.BasePath, string(kind), f.FileName)
	if f.Path != want {
		return fmt.Errorf("%s: path does not match folder layout (want %s)", f.Path, want)
	}
	return nil
}

// ListSubjects returns every subject in declaration order.
func (r *Registry) ListSubjects() []Subject {
	out := make([]Subject, len(r.subjects))
	for i, s := range r.subjects {
		out[i] = s.clone()
	}
	return out
}

// Subject returns a single subject by key.
func (r *Registry) Subject(key string) (Subject, error) {
	s, err := r.subject(key)
	if err != nil {
		return Subject{}, err
	}
	return s.clone(), nil
}

func (r *Registry) subject(key string) (Subject, error) {
	i, ok := r.byKey[key]
	if !ok {
		return Subject{}, fmt.Errorf("subject %q: %w", key, ErrNotFound)
	}
	return r.subjects[i], nil
}

// GetFolder returns the folder of the given kind within a subject.
func (r *Registry) GetFolder(subjectKey string, kind FolderKind) (*Folder, error) {
	f, err := r.folder(subjectKey, kind)
	if err != nil {
		return nil, err
	}
	return f.clone(), nil
}

func (r *Registry) folder(subjectKey string, kind FolderKind) (*Folder, error) {
	s, err := r.subject(subjectKey)
	if err != nil {
		return nil, err
	}
	f, ok := s.Folders[kind]
	if !ok {
		return nil, fmt.Errorf("folder %s/%s: %w", subjectKey, kind, ErrNotFound)
	}
	return f, nil
}

// GetFileRef returns the file at index within a folder.
func (r *Registry) GetFileRef(subjectKey string, kind FolderKind, index int) (FileRef, error) {
	f, err := r.folder(subjectKey, kind)
	if err != nil {
		return FileRef{}, err
	}
	if index < 0 || index >= len(f.Files) {
		return FileRef{}, fmt.Errorf("file %d in %s/%s (%d files): %w", index, subjectKey, kind, len(f.Files), ErrOutOfRange)
	}
	return f.Files[index], nil
}

// Lookup resolves a content path back to its catalog position.
func (r *Registry) Lookup(p string) (Position, bool) {
	pos, ok := r.byPath[strings.TrimPrefix(p, "/")]
	return pos, ok
}

// Len returns the number of registered files.
func (r *Registry) Len() int { return len(r.byPath) }

// Files returns every FileRef in sidebar order.
func (r *Registry) Files() []FileRef {
	out := make([]FileRef, 0, len(r.byPath))
	for _, s := range r.subjects {
		for _, k := range s.FolderKinds() {
			out = append(out, s.Folders[k].Files...)
		}
	}
	return out
}

// Verify checks that every registered file exists in the content tree.
func (r *Registry) Verify(fsys fs.FS) error {
	var errs []error
	for _, f := range r.Files() {
		info, err := fs.Stat(fsys, f.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		if info.IsDir() {
			errs = append(errs, fmt.Errorf("%s: is a directory", f.Path))
		}
	}
	return errors.Join(errs...)
}

// Filter returns the subjects visible for a search query. A subject whose key
// or display name matches is kept whole; otherwise only matching files are
// kept and subjects left empty are dropped.
func (r *Registry) Filter(query string) []Subject {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.ListSubjects()
	}

	var out []Subject
	for _, s := range r.subjects {
		if strings.Contains(strings.ToLower(s.Key), q) || strings.Contains(strings.ToLower(s.DisplayName), q) {
			out = append(out, s.clone())
			continue
		}

		folders := make(map[FolderKind]*Folder)
		for kind, f := range s.Folders {
			var files []FileRef
			for _, ref := range f.Files {
				if strings.Contains(strings.ToLower(ref.FileName), q) {
					files = append(files, ref)
				}
			}
			if len(files) > 0 {
				folders[kind] = &Folder{Kind: f.Kind, DisplayName: f.DisplayName, Icon: f.Icon, Files: files}
			}
		}
		if len(folders) == 0 {
			continue
		}
		filtered := s
		filtered.Folders = folders
		out = append(out, filtered)
	}
	return out
}
