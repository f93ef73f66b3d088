package library

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// stepClock advances one second on every reading so insertion order is
// also time_created order.
type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	lib, err := Open(filepath.Join(t.TempDir(), "booklib.db"), nil, WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })
	return lib
}

func parsedFile(title string, authors ...types.AuthorName) types.ParsedFile {
	return types.ParsedFile{
		SourcePath:    "/tmp/" + title + ".pdf",
		Title:         title,
		Authors:       authors,
		Pages:         100,
		BookFileName:  title + ".pdf",
		CoverFileName: title + ".png",
	}
}

func addBook(t *testing.T, lib *Library, title string, authors ...types.AuthorName) *types.Book {
	t.Helper()
	b, err := lib.AddBook(parsedFile(title, authors...))
	require.NoError(t, err)
	require.True(t, lib.Success())
	return b
}

func column(t *testing.T, rows []types.Record, name string) []any {
	t.Helper()
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		v, ok := r.Get(name)
		require.True(t, ok, name)
		out = append(out, v)
	}
	return out
}

func TestAddBookSuccessIsOneShot(t *testing.T) {
	lib := newTestLibrary(t)
	b, err := lib.AddBook(parsedFile("Dune", types.AuthorName{First: "Frank", Last: "Herbert"}))
	require.NoError(t, err)
	assert.True(t, lib.Success())
	assert.False(t, lib.Success())

	links, err := lib.Authorships(b.BookID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, links[0].AuthorshipID, lib.LastInsertID())
	got, err := lib.GetBook(b.BookID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, types.ReservedCategoryID, got.Category)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC), got.TimeCreated)
}

func TestAddBookInvalid(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.AddBook(types.ParsedFile{Title: "", BookFileName: "x.pdf"})
	assert.ErrorIs(t, err, types.ErrInvalidFile)
	assert.False(t, lib.Success())

	_, err = lib.AddBook(types.ParsedFile{Title: "X"})
	assert.ErrorIs(t, err, types.ErrInvalidFile)

	rows, err := lib.ListBooks(AllBooks())
	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestAddBookSkipsIncompleteAuthor(t *testing.T) {
	lib := newTestLibrary(t)
	b, err := lib.AddBook(parsedFile("The Odyssey",
		types.AuthorName{First: "", Last: "Homer"},
		types.AuthorName{First: "Emily", Last: "Wilson"},
	))
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, lib.Success())

	links, err := lib.Authorships(b.BookID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	authors, err := lib.AuthorsForBook(b.BookID)
	require.NoError(t, err)
	assert.Equal(t, "Emily Wilson", authors)

	homer, err := lib.SearchAuthors("Homer")
	require.NoError(t, err)
	assert.Empty(t, homer)
}

func TestAddBookRowFailureRollsBack(t *testing.T) {
	zero := func() time.Time { return time.Time{} }
	lib, err := Open(filepath.Join(t.TempDir(), "booklib.db"), nil, WithClock(zero))
	require.NoError(t, err)
	t.Cleanup(func() { lib.Close() })

	b, err := lib.AddBook(parsedFile("Dune", types.AuthorName{First: "Frank", Last: "Herbert"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT NULL")
	assert.Nil(t, b)
	assert.False(t, lib.Success())

	rows, err := lib.ListBooks(AllBooks())
	require.NoError(t, err)
	assert.Nil(t, rows)

	a, err := lib.GetAuthor("Frank", "Herbert")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestAddBookReusesAuthor(t *testing.T) {
	lib := newTestLibrary(t)
	herbert := types.AuthorName{First: "Frank", Last: "Herbert"}
	first := addBook(t, lib, "Dune", herbert)
	second := addBook(t, lib, "Dune Messiah", herbert)

	a, err := lib.GetAuthor("Frank", "Herbert")
	require.NoError(t, err)
	require.NotNil(t, a)

	for _, b := range []*types.Book{first, second} {
		links, err := lib.Authorships(b.BookID)
		require.NoError(t, err)
		require.Len(t, links, 1)
		assert.Equal(t, a.AuthorID, links[0].AuthorID)
	}

	found, err := lib.SearchAuthors("erb")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestAddBookSkipsDuplicateAuthorship(t *testing.T) {
	lib := newTestLibrary(t)
	herbert := types.AuthorName{First: "Frank", Last: "Herbert"}
	b := addBook(t, lib, "Dune", herbert, herbert)

	links, err := lib.Authorships(b.BookID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestListBooksColumnsAndOrder(t *testing.T) {
	lib := newTestLibrary(t)
	addBook(t, lib, "First", types.AuthorName{First: "Ann", Last: "Able"})
	addBook(t, lib, "Second")

	rows, err := lib.ListBooks(AllBooks())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, BookColumns, rows[0].Names())
	assert.Equal(t, []any{"Second", "First"}, column(t, rows, "title"))
	assert.Equal(t, []any{nil, "Able Ann"}, column(t, rows, "authors"))
	assert.Equal(t, []any{"new", "new"}, column(t, rows, "category"))
}

func TestListBooksDuplicates(t *testing.T) {
	lib := newTestLibrary(t)
	addBook(t, lib, "Dune", types.AuthorName{First: "Frank", Last: "Herbert"})
	addBook(t, lib, "Dune")
	addBook(t, lib, "Foo")

	rows, err := lib.ListBooks(Duplicates())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"Dune", "Dune"}, column(t, rows, "title"))
	assert.Equal(t, []any{"", ""}, column(t, rows, "authors"))
	assert.Equal(t, []any{types.ReservedCategoryID, types.ReservedCategoryID}, column(t, rows, "category"))
}

func TestListBooksByCategory(t *testing.T) {
	lib := newTestLibrary(t)
	a := addBook(t, lib, "A")
	b := addBook(t, lib, "B")
	c := addBook(t, lib, "C")

	prog, err := lib.TagByName(types.TagCategory, "prog")
	require.NoError(t, err)
	require.NotNil(t, prog)
	require.NoError(t, lib.UpdateItem(b, map[string]any{"category": prog.ID}))
	assert.True(t, lib.Success())

	reserved, err := lib.TagByID(types.TagCategory, types.ReservedCategoryID)
	require.NoError(t, err)
	rows, err := lib.ListBooks(BooksWithTag(*reserved))
	require.NoError(t, err)
	assert.Equal(t, []any{c.BookID, a.BookID}, column(t, rows, "book_id"))

	rows, err = lib.ListBooks(BooksWithTag(*prog))
	require.NoError(t, err)
	assert.Equal(t, []any{"B"}, column(t, rows, "title"))
}

func TestListBooksBySeries(t *testing.T) {
	lib := newTestLibrary(t)
	b := addBook(t, lib, "Dune")
	addBook(t, lib, "Other")

	series, err := lib.AddTag(types.TagSeries, "Dune Chronicles")
	require.NoError(t, err)
	require.NoError(t, lib.UpdateItem(b, map[string]any{"series": series.ID, "series_num": 1}))

	rows, err := lib.ListBooks(BooksWithTag(series))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"Dune Chronicles"}, column(t, rows, "series"))
	assert.Equal(t, []any{int64(1)}, column(t, rows, "series_num"))
}

func TestListBooksBookmarks(t *testing.T) {
	lib := newTestLibrary(t)
	b := addBook(t, lib, "Marked")
	addBook(t, lib, "Plain")
	require.NoError(t, lib.UpdateItem(b, map[string]any{"bookmark": true}))

	rows, err := lib.ListBooks(BooksWithTag(types.Bookmark))
	require.NoError(t, err)
	assert.Equal(t, []any{"Marked"}, column(t, rows, "title"))

	rows, err = lib.ListBooks(BookFilter{Mode: FilterTag, Tag: types.Bookmark})
	require.NoError(t, err)
	assert.Equal(t, []any{"Marked"}, column(t, rows, "title"))
}

func TestListBooksTextSearch(t *testing.T) {
	lib := newTestLibrary(t)
	addBook(t, lib, "Dune", types.AuthorName{First: "Frank", Last: "Herbert"})
	addBook(t, lib, "Foundation", types.AuthorName{First: "Isaac", Last: "Asimov"})

	rows, err := lib.ListBooks(SearchBooks("title", "DUN"))
	require.NoError(t, err)
	assert.Equal(t, []any{"Dune"}, column(t, rows, "title"))

	rows, err = lib.ListBooks(SearchBooks(AuthorsColumn, "asim"))
	require.NoError(t, err)
	assert.Equal(t, []any{"Foundation"}, column(t, rows, "title"))

	rows, err = lib.ListBooks(SearchBooks("title", "nothing"))
	require.NoError(t, err)
	assert.Nil(t, rows)

	_, err = lib.ListBooks(SearchBooks("title) OR 1=1 --", "x"))
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
	_, err = lib.ListBooks(BookFilter{Mode: FilterMode(42)})
	assert.ErrorIs(t, err, types.ErrUnknownFilter)
}

func TestDeleteBookThenCleanOrphans(t *testing.T) {
	lib := newTestLibrary(t)
	b := addBook(t, lib, "Good Omens",
		types.AuthorName{First: "Terry", Last: "Pratchett"},
		types.AuthorName{First: "Neil", Last: "Gaiman"})

	authors, err := lib.AuthorsForBook(b.BookID)
	require.NoError(t, err)
	assert.Contains(t, authors, "Terry Pratchett")
	assert.Contains(t, authors, "Neil Gaiman")

	require.NoError(t, lib.DelItem(b))
	assert.True(t, lib.Success())

	o, err := lib.CleanOrphans()
	require.NoError(t, err)
	assert.Equal(t, Orphans{Authorships: 2, Authors: 2}, o)
	assert.True(t, lib.Success())

	links, err := lib.exec.Execute("SELECT count(*) AS n FROM authorships")
	require.NoError(t, err)
	n, _ := links[0].Get("n")
	assert.Equal(t, int64(0), n)
	people, err := lib.exec.Execute("SELECT count(*) AS n FROM authors")
	require.NoError(t, err)
	n, _ = people[0].Get("n")
	assert.Equal(t, int64(0), n)
}

func TestCleanOrphansKeepsLinkedAuthors(t *testing.T) {
	lib := newTestLibrary(t)
	addBook(t, lib, "Dune", types.AuthorName{First: "Frank", Last: "Herbert"})
	_, err := lib.AddAuthor("Lonely", "Writer", "")
	require.NoError(t, err)

	o, err := lib.CleanOrphans()
	require.NoError(t, err)
	assert.Equal(t, Orphans{Authorships: 0, Authors: 1}, o)

	a, err := lib.GetAuthor("Frank", "Herbert")
	require.NoError(t, err)
	assert.NotNil(t, a)
}

func TestDeleteOrphanTags(t *testing.T) {
	lib := newTestLibrary(t)
	addBook(t, lib, "Dune")
	_, err := lib.AddTag(types.TagSeries, "Unused")
	require.NoError(t, err)

	n, err := lib.DeleteOrphanSeries()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = lib.DeleteOrphanCategories()
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	cats, err := lib.Tags(types.TagCategory)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, types.ReservedCategoryID, cats[0].ID)
}

func TestDeleteOrphanCategoriesKeepsReservedWithoutBooks(t *testing.T) {
	lib := newTestLibrary(t)
	_, err := lib.DeleteOrphanCategories()
	require.NoError(t, err)

	reserved, err := lib.TagByID(types.TagCategory, types.ReservedCategoryID)
	require.NoError(t, err)
	assert.NotNil(t, reserved)
}

func TestTags(t *testing.T) {
	lib := newTestLibrary(t)

	cats, err := lib.Tags(types.TagCategory)
	require.NoError(t, err)
	assert.Len(t, cats, 18)
	assert.Equal(t, "new", cats[0].Name)

	marks, err := lib.Tags(types.TagBookmark)
	require.NoError(t, err)
	assert.Equal(t, []types.Tag{types.Bookmark}, marks)

	series, err := lib.Tags(types.TagSeries)
	require.NoError(t, err)
	assert.Nil(t, series)

	_, err = lib.Tags(types.TagKind(0))
	assert.ErrorIs(t, err, types.ErrInvalidKind)

	missing, err := lib.TagByName(types.TagCategory, "poetry")
	require.NoError(t, err)
	assert.Nil(t, missing)

	bm, err := lib.TagByID(types.TagBookmark, 0)
	require.NoError(t, err)
	require.NotNil(t, bm)
	assert.Equal(t, types.Bookmark, *bm)
}

func TestAddTag(t *testing.T) {
	lib := newTestLibrary(t)
	tag, err := lib.AddTag(types.TagCategory, "  poetry ")
	require.NoError(t, err)
	assert.True(t, lib.Success())
	assert.Equal(t, "poetry", tag.Name)
	assert.Equal(t, lib.LastInsertID(), tag.ID)

	_, err = lib.AddTag(types.TagCategory, " ")
	assert.ErrorIs(t, err, types.ErrInvalidName)
	assert.False(t, lib.Success())

	_, err = lib.AddTag(types.TagBookmark, "more")
	assert.ErrorIs(t, err, types.ErrNotPersisted)
}

func TestDeleteTagGuards(t *testing.T) {
	lib := newTestLibrary(t)
	b := addBook(t, lib, "Dune")
	series, err := lib.AddTag(types.TagSeries, "Dune")
	require.NoError(t, err)
	require.NoError(t, lib.UpdateItem(b, map[string]any{"series": series.ID}))

	reserved, err := lib.TagByID(types.TagCategory, types.ReservedCategoryID)
	require.NoError(t, err)
	assert.ErrorIs(t, lib.DeleteTag(*reserved), types.ErrReservedTag)
	assert.ErrorIs(t, lib.DeleteTag(types.Bookmark), types.ErrNotPersisted)
	assert.ErrorIs(t, lib.DeleteTag(series), types.ErrTagInUse)
	assert.False(t, lib.Success())

	sport, err := lib.TagByName(types.TagCategory, "sport")
	require.NoError(t, err)
	require.NoError(t, lib.DeleteTag(*sport))
	assert.True(t, lib.Success())
	gone, err := lib.TagByName(types.TagCategory, "sport")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestUpdateItemUnknownColumn(t *testing.T) {
	lib := newTestLibrary(t)
	b := addBook(t, lib, "Dune")
	err := lib.UpdateItem(b, map[string]any{"color": "red"})
	assert.ErrorIs(t, err, types.ErrUnknownColumn)
	assert.False(t, lib.Success())
}

func TestGetBookMissing(t *testing.T) {
	lib := newTestLibrary(t)
	b, err := lib.GetBook(99)
	require.NoError(t, err)
	assert.Nil(t, b)

	addBook(t, lib, "It's Here")
	b, err = lib.GetBookByTitle("It's Here")
	require.NoError(t, err)
	require.NotNil(t, b)
}

func TestFiles(t *testing.T) {
	lib := newTestLibrary(t)
	addBook(t, lib, "Dune")
	_, err := lib.AddBook(types.ParsedFile{Title: "No Cover", BookFileName: "nocover.epub"})
	require.NoError(t, err)

	files, err := lib.Files()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Dune.pdf", "Dune.png", "nocover.epub"}, files)
}
