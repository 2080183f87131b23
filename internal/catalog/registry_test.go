package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/learnhub/content"
)

func TestDefaultCatalogMatchesShippedContent(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Verify(content.FS()))

	// Every valid triple must resolve to a file that exists.
	for _, s := range reg.ListSubjects() {
		for _, kind := range s.FolderKinds() {
			folder, err := reg.GetFolder(s.Key, kind)
			require.NoError(t, err)
			for i := range folder.Files {
				ref, err := reg.GetFileRef(s.Key, kind, i)
				require.NoError(t, err)
				_, err = os.Stat(filepath.Join("..", "..", "content", filepath.FromSlash(ref.Path)))
				assert.NoError(t, err, ref.Path)
			}
		}
	}
}

func TestListSubjectsStableOrder(t *testing.T) {
	reg := Default()
	first := reg.ListSubjects()
	second := reg.ListSubjects()

	require.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].Key, second[i].Key)
	}
	assert.Equal(t, "Java8-Plus", first[0].Key)
}

func TestGetFolderNotFound(t *testing.T) {
	reg := Default()

	_, err := reg.GetFolder("Cobol", KindNotes)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = reg.GetFolder("React-TypeScript", KindRealProblems)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetFileRefBounds(t *testing.T) {
	reg := Default()

	ref, err := reg.GetFileRef("Java8-Plus", KindNotes, 0)
	require.NoError(t, err)
	assert.Equal(t, "Java8-Plus/notes/01-java8-fundamentals.md", ref.Path)

	for _, idx := range []int{-1, 4, 100} {
		_, err := reg.GetFileRef("Java8-Plus", KindNotes, idx)
		assert.ErrorIs(t, err, ErrOutOfRange, "index %d", idx)
	}

	_, err = reg.GetFileRef("nope", KindNotes, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookup(t *testing.T) {
	reg := Default()

	pos, ok := reg.Lookup("/Java8-Plus/notes/03-streams-api.md")
	require.True(t, ok)
	assert.Equal(t, Position{SubjectKey: "Java8-Plus", Folder: KindNotes, Index: 2}, pos)

	_, ok = reg.Lookup("Java8-Plus/notes/missing.md")
	assert.False(t, ok)
}

func TestNewRejectsInvalidCatalog(t *testing.T) {
	subjects := []Subject{
		{Key: "A", Folders: map[FolderKind]*Folder{
			KindNotes: {Kind: KindNotes, Files: []FileRef{
				{FileName: "one.md", Path: "A/notes/one.md"},
				{FileName: "two.txt", Path: "A/notes/two.txt"},
				{FileName: "three.md", Path: "A/notes/typo.md"},
			}},
			FolderKind("videos"): {Files: nil},
		}},
		{Key: "A"},
		{Key: ""},
	}

	_, err := New(subjects)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "not a markdown file")
	assert.Contains(t, msg, "path does not match")
	assert.Contains(t, msg, `unknown folder kind "videos"`)
	assert.Contains(t, msg, "duplicate key")
	assert.Contains(t, msg, "key is required")
}

func TestVerifyReportsMissingFiles(t *testing.T) {
	reg, err := New([]Subject{{
		Key: "S",
		Folders: map[FolderKind]*Folder{
			KindQuiz: {Kind: KindQuiz, Files: []FileRef{
				{FileName: "present.md", Path: "S/quiz/present.md"},
				{FileName: "absent.md", Path: "S/quiz/absent.md"},
			}},
		},
	}})
	require.NoError(t, err)

	fsys := fstest.MapFS{"S/quiz/present.md": {Data: []byte("# ok")}}
	err = reg.Verify(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S/quiz/absent.md")
	assert.NotContains(t, err.Error(), "present.md")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFilter(t *testing.T) {
	reg := Default()

	assert.Len(t, reg.Filter(""), 4)

	bySubject := reg.Filter("spring")
	require.Len(t, bySubject, 1)
	assert.Equal(t, "Spring-Boot", bySubject[0].Key)
	assert.Len(t, bySubject[0].FolderKinds(), 3)

	byFile := reg.Filter("STREAMS")
	require.Len(t, byFile, 1)
	assert.Equal(t, "Java8-Plus", byFile[0].Key)
	require.Contains(t, byFile[0].Folders, KindNotes)
	assert.Len(t, byFile[0].Folders[KindNotes].Files, 1)

	// The registry itself must be untouched.
	folder, err := reg.GetFolder("Java8-Plus", KindNotes)
	require.NoError(t, err)
	assert.Len(t, folder.Files, 4)

	assert.Empty(t, reg.Filter("haskell"))
}

func TestParseFolderKind(t *testing.T) {
	k, err := ParseFolderKind(" Real-Problems ")
	require.NoError(t, err)
	assert.Equal(t, KindRealProblems, k)

	_, err = ParseFolderKind("videos")
	assert.Error(t, err)
}

func TestNewReportsFolderErrorsInStableOrder(t *testing.T) {
	subjects := []Subject{{Key: "A", Folders: map[FolderKind]*Folder{
		FolderKind("videos"):   {},
		FolderKind("audio"):    {},
		KindQuiz:               {Kind: KindQuiz},
		FolderKind("slides"):   {},
		KindInterviewQuestions: {Kind: KindNotes},
	}}}

	_, err := New(subjects)
	require.Error(t, err)
	first := err.Error()
	assert.Contains(t, first, `folder of kind "notes" registered under "interview-questions"`)
	assert.Less(t, strings.Index(first, `"audio"`), strings.Index(first, `"slides"`))
	assert.Less(t, strings.Index(first, `"slides"`), strings.Index(first, `"videos"`))

	for range 20 {
		_, err := New(subjects)
		require.Error(t, err)
		assert.Equal(t, first, err.Error())
	}
}

func TestNewFillsMissingFolderKind(t *testing.T) {
	reg, err := New([]Subject{{Key: "A", Folders: map[FolderKind]*Folder{
		KindNotes: {Files: []FileRef{{FileName: "one.md", Path: "A/notes/one.md"}}},
	}}})
	require.NoError(t, err)

	folder, err := reg.GetFolder("A", KindNotes)
	require.NoError(t, err)
	assert.Equal(t, KindNotes, folder.Kind)
}

func TestRegistryIsolatedFromCallers(t *testing.T) {
	input := []Subject{{Key: "A", Folders: map[FolderKind]*Folder{
		KindNotes: {Kind: KindNotes, Files: []FileRef{
			{FileName: "one.md", Path: "A/notes/one.md"},
			{FileName: "two.md", Path: "A/notes/two.md"},
		}},
	}}}
	reg, err := New(input)
	require.NoError(t, err)

	input[0].Folders[KindNotes].Files[0].FileName = "changed.md"
	delete(input[0].Folders, KindNotes)

	listed := reg.ListSubjects()
	listed[0].Folders[KindNotes].Files[0].FileName = "changed.md"
	delete(listed[0].Folders, KindNotes)

	folder, err := reg.GetFolder("A", KindNotes)
	require.NoError(t, err)
	folder.Files[1].FileName = "changed.md"
	folder.Files = nil

	filtered := reg.Filter("a")
	require.Len(t, filtered, 1)
	filtered[0].Folders[KindNotes].Files[0].Path = "changed.md"

	byFile := reg.Filter("two")
	require.Len(t, byFile, 1)
	byFile[0].Folders[KindNotes].Files[0].FileName = "changed.md"

	ref, err := reg.GetFileRef("A", KindNotes, 0)
	require.NoError(t, err)
	assert.Equal(t, FileRef{FileName: "one.md", Path: "A/notes/one.md"}, ref)
	ref, err = reg.GetFileRef("A", KindNotes, 1)
	require.NoError(t, err)
	assert.Equal(t, "two.md", ref.FileName)

	s, err := reg.Subject("A")
	require.NoError(t, err)
	assert.Equal(t, []FolderKind{KindNotes}, s.FolderKinds())
	assert.Equal(t, 2, reg.Len())
}
