package navigator

import (
	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
	"github.com/ziadkadry99/learnhub/internal/render"
)

// Phase is what the content pane is showing.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseDisplaying
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseDisplaying:
		return "displaying"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Document is a fetched and rendered FileRef.
type Document struct {
	Ref      catalog.FileRef
	Raw      string
	HTML     string
	TOC      []render.TOCEntry
	Title    string
	Fallback bool
}

// State is a snapshot of the navigation session.
type State struct {
	Phase Phase

	// Sidebar selection. FileIndex is -1 when no file in Folder is active.
	SubjectKey  string
	Folder      catalog.FolderKind
	FileIndex   int
	SearchQuery string
	DarkMode    bool

	// Current is the file being loaded, displayed or that failed.
	Current  catalog.FileRef
	Document *Document
	Failure  *fetcher.Error
	// Message is the user-facing explanation of Failure.
	Message string
}

// Position returns the active sidebar position, if a file is selected.
func (s State) Position() (catalog.Position, bool) {
	if s.FileIndex < 0 || s.SubjectKey == "" {
		return catalog.Position{}, false
	}
	return catalog.Position{SubjectKey: s.SubjectKey, Folder: s.Folder, Index: s.FileIndex}, true
}
