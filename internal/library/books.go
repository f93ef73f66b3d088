package library

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/booklib/internal/sqlite"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// FilterMode selects which books ListBooks returns.
type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterText
	FilterTag
	FilterBookmarks
	FilterDuplicates
)

// AuthorsColumn is the pseudo-column for text searches over author last names.
const AuthorsColumn = "authors"

// SearchColumns are the columns accepted by a text search.
var SearchColumns = []string{"title", AuthorsColumn, "rating", "isbn", "time_created", "pub_date"}

// BookColumns is the column order of every row returned by ListBooks.
var BookColumns = []string{
	"book_id", "title", "authors", "category", "bookmark", "read_state", "rating", "time_created",
	"pub_date", "isbn", "series", "series_num", "cover", "file", "pages",
}

// BookFilter describes one book listing. Build it with AllBooks,
// SearchBooks, BooksWithTag, Bookmarked or Duplicates.
type BookFilter struct {
	Mode   FilterMode
	Column string
	Text   string
	Tag    types.Tag
}

// AllBooks lists every book.
func AllBooks() BookFilter { return BookFilter{Mode: FilterAll} }

// SearchBooks matches text case-insensitively inside column. The authors
// column matches author last names.
func SearchBooks(column, text string) BookFilter {
	return BookFilter{Mode: FilterText, Column: column, Text: text}
}

// BooksWithTag lists the books of a category or series. The Bookmark tag
// lists bookmarked books.
func BooksWithTag(tag types.Tag) BookFilter {
	if tag.Kind == types.TagBookmark {
		return Bookmarked()
	}
	return BookFilter{Mode: FilterTag, Tag: tag}
}

// Bookmarked lists bookmarked books.
func Bookmarked() BookFilter { return BookFilter{Mode: FilterBookmarks} }

// Duplicates lists books whose title occurs more than once.
func Duplicates() BookFilter { return BookFilter{Mode: FilterDuplicates} }

const listBooksSelect = `SELECT
	books.book_id,
	books.title,
	group_concat(authors.last_name || ' ' || authors.first_name, ', ') AS authors,
	category_name AS category,
	books.bookmark,
	books.read_state,
	books.rating,
	books.time_created,
	books.pub_date,
	books.isbn,
	series_name AS series,
	books.series_num,
	books.cover,
	books.file,
	books.pages
FROM books
LEFT JOIN authorships ON authorships.book_id = books.book_id
LEFT JOIN authors ON authorships.author_id = authors.author_id
LEFT JOIN categories ON books.category = categories.category_id
LEFT JOIN series ON books.series = series.series_id`

const duplicatesSelect = `SELECT
	a.book_id,
	a.title,
	'' AS authors,
	a.category,
	a.bookmark,
	a.read_state,
	a.rating,
	a.time_created,
	a.pub_date,
	a.isbn,
	a.series,
	a.series_num,
	a.cover,
	a.file,
	a.pages
FROM books a
JOIN (SELECT title, count(*) FROM books GROUP BY title HAVING count(*) > 1) b
ON a.title = b.title
ORDER BY a.title;`

func listBooksQuery(where, having string) string {
	var b strings.Builder
	b.WriteString(listBooksSelect)
	if where != "" {
		b.WriteString("\nWHERE " + where)
	}
	b.WriteString("\nGROUP BY books.book_id")
	if having != "" {
		b.WriteString("\nHAVING " + having)
	}
	b.WriteString("\nORDER BY books.time_created DESC;")
	return b.String()
}

// ListBooks returns one row per book, columns in BookColumns order, newest
// first. Duplicates are ordered by title instead, with empty authors and raw
// category and series ids. No match returns nil.
func (l *Library) ListBooks(f BookFilter) ([]types.Record, error) {
	var (
		where, having string
		args          []any
	)
	switch f.Mode {
	case FilterAll:
	case FilterDuplicates:
		return l.exec.Execute(duplicatesSelect)
	case FilterBookmarks:
		where = "books.bookmark = 1"
	case FilterTag:
		if f.Tag.Kind == types.TagBookmark {
			where = "books.bookmark = 1"
			break
		}
		col := f.Tag.Kind.BookColumn()
		if col == "" {
			return nil, fmt.Errorf("%w: %d", types.ErrInvalidKind, int(f.Tag.Kind))
		}
		if f.Tag.ID != 0 {
			where = "books." + col + " = ?"
			args = append(args, f.Tag.ID)
		}
	case FilterText:
		pattern := "%" + strings.ToLower(f.Text) + "%"
		switch {
		case f.Column == AuthorsColumn:
			having = "authors.last_name LIKE ?"
		case searchable(f.Column):
			where = "lower(books." + f.Column + ") LIKE ?"
		default:
			return nil, fmt.Errorf("%w: %s", types.ErrUnknownColumn, f.Column)
		}
		args = append(args, pattern)
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnknownFilter, int(f.Mode))
	}
	return l.exec.Execute(listBooksQuery(where, having), args...)
}

func searchable(column string) bool {
	for _, c := range SearchColumns {
		if c == column && c != AuthorsColumn {
			return true
		}
	}
	return false
}

// GetBook returns the book with the given id, or nil.
func (l *Library) GetBook(id int64) (*types.Book, error) {
	return l.findBook("book_id = ?", id)
}

// GetBookByTitle returns the first book with exactly this title, or nil.
func (l *Library) GetBookByTitle(title string) (*types.Book, error) {
	return l.findBook("title = ?", title)
}

func (l *Library) findBook(where string, arg any) (*types.Book, error) {
	found, err := l.exec.Select(types.BookModel, sqlite.Query{Where: where, Args: []any{arg}, Limit: 1})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0].(*types.Book), nil
}

// AddBook stores a parsed file as a new book in the reserved category and
// links its authors, creating missing ones. A failure to store the book
// rolls back and aborts; a failure on one author is logged and skipped.
func (l *Library) AddBook(pf types.ParsedFile) (*types.Book, error) {
	l.success = false
	if err := l.validate.Struct(pf); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidFile, err)
	}

	b := types.NewBook(pf.Title, pf.BookFileName, l.now().UTC())
	b.Pages = pf.Pages
	b.PubDate = pf.PubDate
	b.Cover = pf.CoverFileName
	if _, err := l.exec.Insert(b); err != nil {
		return nil, l.abort(fmt.Errorf("add book %q: %w", pf.Title, err))
	}

	for _, name := range pf.Authors {
		if err := l.linkAuthor(b.BookID, name); err != nil {
			l.logger.Warn("author not linked",
				"book_id", b.BookID, "first_name", name.First, "last_name", name.Last, "error", err)
		}
	}
	if err := l.commit(); err != nil {
		return nil, err
	}
	l.logger.Info("added book", "book_id", b.BookID, "title", b.Title)
	return b, nil
}

func (l *Library) linkAuthor(bookID int64, name types.AuthorName) error {
	if strings.TrimSpace(name.First) == "" || strings.TrimSpace(name.Last) == "" {
		return fmt.Errorf("%w: author needs first and last name", types.ErrInvalidName)
	}
	author, err := l.GetAuthor(name.First, name.Last)
	if err != nil {
		return err
	}
	if author == nil {
		author = types.NewAuthor(name.First, name.Last)
		if _, err := l.exec.Insert(author); err != nil {
			return err
		}
	}
	_, err = l.exec.Insert(types.NewAuthorship(bookID, author.AuthorID))
	return err
}

// Files returns the book and cover file names referenced by the database.
func (l *Library) Files() ([]string, error) {
	rows, err := l.exec.Execute("SELECT file, cover FROM books;")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, r := range rows {
		for _, f := range r {
			if s, ok := f.Value.(string); ok && s != "" {
				names = append(names, s)
			}
		}
	}
	return names, nil
}
