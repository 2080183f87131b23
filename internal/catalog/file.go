package catalog

import (
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML layout of a catalog.
type catalogFile struct {
	Subjects []subjectEntry `yaml:"subjects"`
}

type subjectEntry struct {
	Key     string                 `yaml:"key"`
	Name    string                 `yaml:"name,omitempty"`
	Icon    string                 `yaml:"icon,omitempty"`
	Path    string                 `yaml:"path,omitempty"`
	Folders map[string][]fileEntry `yaml:"folders"`
}

type fileEntry struct {
	Name string `yaml:"name"`
	Size string `yaml:"size,omitempty"`
}

// LoadFile reads a YAML catalog and validates it.
func LoadFile(p string) (*Registry, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", p, err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and validates it.
func Parse(data []byte) (*Registry, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	subjects := make([]Subject, 0, len(cf.Subjects))
	for _, se := range cf.Subjects {
		s := Subject{
			Key:         se.Key,
			DisplayName: se.Name,
			Icon:        se.Icon,
			BasePath:    se.Path,
			Folders:     make(map[FolderKind]*Folder, len(se.Folders)),
		}
		if s.BasePath == "" {
			s.BasePath = s.Key
		}
		for name, entries := range se.Folders {
			kind, err := ParseFolderKind(name)
			if err != nil {
				return nil, fmt.Errorf("subject %q: %w", se.Key, err)
			}
			f := newFolder(kind)
			for _, e := range entries {
				f.Files = append(f.Files, FileRef{
					FileName: e.Name,
					Path:     path.Join(s.BasePath, string(kind), e.Name),
					Size:     e.Size,
				})
			}
			s.Folders[kind] = f
		}
		subjects = append(subjects, s)
	}
	return New(subjects)
}

// SaveFile writes subjects as a YAML catalog.
func SaveFile(p string, subjects []Subject) error {
	var cf catalogFile
	for _, s := range subjects {
		se := subjectEntry{
			Key:     s.Key,
			Name:    s.DisplayName,
			Icon:    s.Icon,
			Folders: make(map[string][]fileEntry),
		}
		if s.BasePath != s.Key {
			se.Path = s.BasePath
		}
		for _, kind := range s.FolderKinds() {
			entries := []fileEntry{}
			for _, f := range s.Folders[kind].Files {
				entries = append(entries, fileEntry{Name: f.FileName, Size: f.Size})
			}
			se.Folders[string(kind)] = entries
		}
		cf.Subjects = append(cf.Subjects, se)
	}

	data, err := yaml.Marshal(&cf)
	if err != nil {
		return fmt.Errorf("marshalling catalog: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog to %s: %w", p, err)
	}
	return nil
}
