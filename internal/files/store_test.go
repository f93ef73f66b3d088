package files

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	lib := filepath.Join(t.TempDir(), "library")
	s := NewStore(types.Config{LibraryDir: lib}, nil)
	s.tempDir = t.TempDir()
	require.NoError(t, s.EnsureDirs())
	return s, lib
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTargetNameCollision(t *testing.T) {
	s, lib := newTestStore(t)
	assert.Equal(t, "foo.pdf", s.TargetName("/src/Foo.pdf"))
	again := s.TargetName("/other/foo.pdf")
	assert.NotEqual(t, "foo.pdf", again)
	assert.True(t, strings.HasPrefix(again, "foo_"), again)

	writeFile(t, filepath.Join(lib, types.BooksDir, "dune.pdf"), "x")
	got := s.TargetName("/src/Dune.pdf")
	assert.True(t, strings.HasPrefix(got, "dune_"), got)
	assert.True(t, strings.HasSuffix(got, ".pdf"), got)
	assert.Len(t, got, len("dune_12345678.pdf"))
}

func TestInspect(t *testing.T) {
	s, _ := newTestStore(t)
	src := filepath.Join(t.TempDir(), "Frank Herbert - Dune.epub")
	writeFile(t, src, "book")
	writeFile(t, strings.TrimSuffix(src, ".epub")+".png", "cover")

	pf, err := s.Inspect(src)
	require.NoError(t, err)
	assert.Equal(t, src, pf.SourcePath)
	assert.Equal(t, "Dune", pf.Title)
	assert.Equal(t, []types.AuthorName{{First: "Frank", Last: "Herbert"}}, pf.Authors)
	assert.Equal(t, "frank_herbert_-_dune.epub", pf.BookFileName)
	assert.Equal(t, "frank_herbert_-_dune.png", pf.CoverFileName)
}

func TestInspectRejectsDirectory(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.Inspect(t.TempDir())
	assert.ErrorIs(t, err, types.ErrInvalidFile)
	_, err = s.Inspect(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, types.ErrInvalidFile)

	img := filepath.Join(t.TempDir(), "photo.jpg")
	writeFile(t, img, "x")
	_, err = s.Inspect(img)
	assert.ErrorIs(t, err, types.ErrInvalidFile)
}

func TestInspectUnpacksFB2(t *testing.T) {
	s, _ := newTestStore(t)
	src := filepath.Join(t.TempDir(), "Ann Lee - Title.fb2.zip")
	f, err := os.Create(src)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("title.fb2")
	require.NoError(t, err)
	_, err = w.Write([]byte("<FictionBook/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	pf, err := s.Inspect(src)
	require.NoError(t, err)
	assert.Equal(t, "Title", pf.Title)
	assert.Equal(t, "title.fb2", pf.BookFileName)
	assert.True(t, strings.HasPrefix(pf.SourcePath, s.tempDir))
	data, err := os.ReadFile(pf.SourcePath)
	require.NoError(t, err)
	assert.Equal(t, "<FictionBook/>", string(data))

	n, err := s.CleanTemp()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = os.Stat(pf.SourcePath)
	assert.True(t, os.IsNotExist(err))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.PDF"))
	assert.True(t, Supported("b.fb2.zip"))
	assert.False(t, Supported("c.zip"))
	assert.False(t, Supported("d"))
}

func TestCopyBooks(t *testing.T) {
	s, lib := newTestStore(t)
	srcDir := t.TempDir()
	var books []types.ParsedFile
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		src := filepath.Join(srcDir, name)
		writeFile(t, src, "content "+name)
		books = append(books, types.ParsedFile{SourcePath: src, Title: name, BookFileName: name})
	}
	writeFile(t, filepath.Join(srcDir, "a.png"), "cover")
	books[0].CoverFileName = "a.png"

	require.NoError(t, s.CopyBooks(context.Background(), books))
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		data, err := os.ReadFile(filepath.Join(lib, types.BooksDir, name))
		require.NoError(t, err)
		assert.Equal(t, "content "+name, string(data))
	}
	_, err := os.Stat(filepath.Join(lib, types.CoversDir, "a.png"))
	assert.NoError(t, err)
}

func TestCopyBooksMissingSource(t *testing.T) {
	s, _ := newTestStore(t)
	err := s.CopyBooks(context.Background(), []types.ParsedFile{
		{SourcePath: filepath.Join(t.TempDir(), "gone.pdf"), Title: "gone", BookFileName: "gone.pdf"},
	})
	assert.Error(t, err)
}

func TestCleanUnlinked(t *testing.T) {
	s, lib := newTestStore(t)
	writeFile(t, filepath.Join(lib, types.BooksDir, "keep.pdf"), "x")
	writeFile(t, filepath.Join(lib, types.BooksDir, "stray.pdf"), "x")
	writeFile(t, filepath.Join(lib, types.BooksDir, "empty.pdf"), "")
	writeFile(t, filepath.Join(lib, types.CoversDir, "keep.png"), "x")
	writeFile(t, filepath.Join(lib, types.ThumbsDir, "keep.png"), "x")
	writeFile(t, filepath.Join(lib, types.ThumbsDir, "old.png"), "x")

	n, err := s.CleanUnlinked(context.Background(), []string{"keep.pdf", "keep.png", "empty.pdf"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, p := range []string{
		filepath.Join(types.BooksDir, "keep.pdf"),
		filepath.Join(types.CoversDir, "keep.png"),
		filepath.Join(types.ThumbsDir, "keep.png"),
	} {
		_, err := os.Stat(filepath.Join(lib, p))
		assert.NoError(t, err, p)
	}
}

func TestCleanTempOnlyPrefixed(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, os.Mkdir(filepath.Join(s.tempDir, "booklib_abc"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(s.tempDir, "other"), 0o755))

	n, err := s.CleanTemp()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = os.Stat(filepath.Join(s.tempDir, "other"))
	assert.NoError(t, err)
}
