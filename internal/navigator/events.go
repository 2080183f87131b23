package navigator

import (
	"github.com/ziadkadry99/learnhub/internal/catalog"
)

// Event is an input to Controller.Update.
type Event interface {
	isEvent()
}

// Cmd is asynchronous work requested by a transition. Its result is fed back
// into Update.
type Cmd func() Event

// SelectSubject makes a subject active in the sidebar.
type SelectSubject struct {
	Key string
}

// SelectFolder makes a folder of the active subject active in the sidebar.
type SelectFolder struct {
	Kind catalog.FolderKind
}

// SelectFile opens a file. An empty Subject or Folder means the active one.
type SelectFile struct {
	Subject string
	Folder  catalog.FolderKind
	Index   int
}

// SelectNext opens the next file in the active folder.
type SelectNext struct{}

// SelectPrevious opens the previous file in the active folder.
type SelectPrevious struct{}

// Retry fetches the failed file again.
type Retry struct{}

// ToggleDarkMode flips and persists the dark-mode flag.
type ToggleDarkMode struct{}

// Search sets the sidebar filter.
type Search struct {
	Query string
}

// FetchSucceeded carries the text of a completed fetch.
type FetchSucceeded struct {
	Token uint64
	Ref   catalog.FileRef
	Text  string
}

// FetchFailed carries the error of a completed fetch.
type FetchFailed struct {
	Token uint64
	Ref   catalog.FileRef
	Err   error
}

func (SelectSubject) isEvent()  {}
func (SelectFolder) isEvent()   {}
func (SelectFile) isEvent()     {}
func (SelectNext) isEvent()     {}
func (SelectPrevious) isEvent() {}
func (Retry) isEvent()          {}
func (ToggleDarkMode) isEvent() {}
func (Search) isEvent()         {}
func (FetchSucceeded) isEvent() {}
func (FetchFailed) isEvent()    {}
