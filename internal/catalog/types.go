package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// FolderKind classifies the material inside a subject. The string value is
// also the folder name on disk.
type FolderKind string

const (
	KindNotes              FolderKind = "notes"
	KindQuestions          FolderKind = "questions"
	KindQuiz               FolderKind = "quiz"
	KindRealProblems       FolderKind = "real-problems"
	KindInterviewQuestions FolderKind = "interview-questions"
)

// folderKinds is the canonical display order.
var folderKinds = []FolderKind{
	KindNotes,
	KindQuestions,
	KindQuiz,
	KindRealProblems,
	KindInterviewQuestions,
}

var folderLabels = map[FolderKind]struct {
	Name string
	Icon string
}{
	KindNotes:              {Name: "Notes", Icon: "📝"},
	KindQuestions:          {Name: "Practice Questions", Icon: "❓"},
	KindQuiz:               {Name: "Quiz", Icon: "🧠"},
	KindRealProblems:       {Name: "Real Problems", Icon: "🛠️"},
	KindInterviewQuestions: {Name: "Interview Questions", Icon: "🎯"},
}

// FolderKinds returns every folder kind in canonical order.
func FolderKinds() []FolderKind {
	out := make([]FolderKind, len(folderKinds))
	copy(out, folderKinds)
	return out
}

// Valid reports whether k is one of the known folder kinds.
func (k FolderKind) Valid() bool {
	_, ok := folderLabels[k]
	return ok
}

// DisplayName returns the human-readable folder label.
func (k FolderKind) DisplayName() string {
	if l, ok := folderLabels[k]; ok {
		return l.Name
	}
	return string(k)
}

// Icon returns the sidebar icon for the folder kind.
func (k FolderKind) Icon() string {
	return folderLabels[k].Icon
}

// ParseFolderKind converts a folder name into a FolderKind.
func ParseFolderKind(s string) (FolderKind, error) {
	k := FolderKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown folder kind %q", s)
	}
	return k, nil
}

// FileRef identifies one fetchable markdown document. Path is relative to the
// content root and is the only field used for I/O.
type FileRef struct {
	FileName string `json:"file_name"`
	Path     string `json:"path"`
	Size     string `json:"size,omitempty"`
}

// IsZero reports whether the ref is unset.
func (f FileRef) IsZero() bool { return f.Path == "" }

// Folder is an ordered list of files. The order defines next/previous traversal.
type Folder struct {
	Kind        FolderKind `json:"kind"`
	DisplayName string     `json:"display_name"`
	Icon        string     `json:"icon"`
	Files       []FileRef  `json:"files"`
}

// Subject is a top-level course grouping such as "Java8-Plus".
type Subject struct {
	Key         string                 `json:"key"`
	DisplayName string                 `json:"display_name"`
	Icon        string                 `json:"icon"`
	BasePath    string                 `json:"base_path"`
	Folders     map[FolderKind]*Folder `json:"folders"`
}

// FolderKinds returns the kinds present on the subject in canonical order.
func (s Subject) FolderKinds() []FolderKind {
	var out []FolderKind
	for _, k := range folderKinds {
		if _, ok := s.Folders[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (s Subject) clone() Subject {
	folders := make(map[FolderKind]*Folder, len(s.Folders))
	for k, f := range s.Folders {
		folders[k] = f.clone()
	}
	s.Folders = folders
	return s
}

func (f *Folder) clone() *Folder {
	if f == nil {
		return nil
	}
	c := *f
	c.Files = slices.Clone(f.Files)
	return &c
}

// Position locates a file inside the catalog.
type Position struct {
	SubjectKey string     `json:"subject"`
	Folder     FolderKind `json:"folder"`
	Index      int        `json:"index"`
}
