package catalog

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/learnhub/content"
)

func TestSaveAndLoadFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "catalog.yml")

	require.NoError(t, SaveFile(p, DefaultSubjects()))

	loaded, err := LoadFile(p)
	require.NoError(t, err)

	want := Default()
	require.Equal(t, want.Len(), loaded.Len())
	for i, ref := range want.Files() {
		got := loaded.Files()[i]
		assert.Equal(t, ref, got)
	}
	assert.Equal(t, "☕", loaded.ListSubjects()[0].Icon)
}

func TestParseRejectsUnknownFolder(t *testing.T) {
	_, err := Parse([]byte(`
subjects:
  - key: Go
    folders:
      videos:
        - name: intro.md
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown folder kind")
}

func TestParseCustomBasePath(t *testing.T) {
	reg, err := Parse([]byte(`
subjects:
  - key: Go
    name: Go Language
    path: courses/go
    folders:
      notes:
        - name: 01-intro.md
          size: 2 KB
`))
	require.NoError(t, err)

	ref, err := reg.GetFileRef("Go", KindNotes, 0)
	require.NoError(t, err)
	assert.Equal(t, "courses/go/notes/01-intro.md", ref.Path)
	assert.Equal(t, "2 KB", ref.Size)
}

func TestDiscover(t *testing.T) {
	fsys := fstest.MapFS{
		"go-lang/notes/02-maps.md":            {Data: []byte("# Maps")},
		"go-lang/notes/01-slices.md":          {Data: make([]byte, 2048)},
		"go-lang/quiz/quiz.md":                {Data: []byte("# Quiz")},
		"go-lang/videos/skip.md":              {Data: []byte("ignored")},
		"go-lang/notes/deep/nested.md":        {Data: []byte("ignored")},
		"algorithms/interview-questions/q.md": {Data: []byte("# Q")},
		"README.md":                           {Data: []byte("ignored")},
	}

	subjects, err := Discover(fsys)
	require.NoError(t, err)
	require.Len(t, subjects, 2)

	assert.Equal(t, "algorithms", subjects[0].Key)
	assert.Equal(t, "Go Lang", subjects[1].DisplayName)

	notes := subjects[1].Folders[KindNotes]
	require.NotNil(t, notes)
	require.Len(t, notes.Files, 2)
	assert.Equal(t, "01-slices.md", notes.Files[0].FileName)
	assert.Equal(t, "go-lang/notes/01-slices.md", notes.Files[0].Path)
	assert.Equal(t, "2.0 kB", notes.Files[0].Size)
	assert.NotContains(t, subjects[1].Folders, FolderKind("videos"))

	reg, err := New(subjects)
	require.NoError(t, err)
	assert.NoError(t, reg.Verify(fsys))
}

func TestDiscoverShippedContent(t *testing.T) {
	subjects, err := Discover(content.FS())
	require.NoError(t, err)

	reg, err := New(subjects)
	require.NoError(t, err)
	assert.Equal(t, Default().Len(), reg.Len())
}
