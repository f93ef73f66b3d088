package library

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/booklib/internal/sqlite"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// authorSearchLimit caps SearchAuthors results.
const authorSearchLimit = 20

// GetAuthor returns the author with these names, or nil.
func (l *Library) GetAuthor(first, last string) (*types.Author, error) {
	return l.findAuthor("first_name = ? AND last_name = ?", first, last)
}

// AuthorByID returns the author with this id, or nil.
func (l *Library) AuthorByID(id int64) (*types.Author, error) {
	return l.findAuthor("author_id = ?", id)
}

func (l *Library) findAuthor(where string, args ...any) (*types.Author, error) {
	found, err := l.exec.Select(types.AuthorModel, sqlite.Query{Where: where, Args: args, Limit: 1})
	if err != nil || len(found) == 0 {
		return nil, err
	}
	return found[0].(*types.Author), nil
}

// AuthorsForBook returns the book's authors as "First Last, First Last", or
// "" when it has none.
func (l *Library) AuthorsForBook(bookID int64) (string, error) {
	rows, err := l.exec.Execute(`SELECT
	group_concat(authors.first_name || ' ' || authors.last_name, ', ') AS authors
FROM books
LEFT JOIN authorships ON authorships.book_id = books.book_id
LEFT JOIN authors ON authorships.author_id = authors.author_id
WHERE books.book_id = ?;`, bookID)
	if err != nil || len(rows) == 0 {
		return "", err
	}
	v, _ := rows[0].Get("authors")
	s, _ := v.(string)
	return s, nil
}

// SearchAuthors returns up to 20 authors whose last name contains text.
func (l *Library) SearchAuthors(text string) ([]*types.Author, error) {
	found, err := l.exec.Select(types.AuthorModel, sqlite.Query{
		Where:   "last_name LIKE ?",
		Args:    []any{"%" + text + "%"},
		OrderBy: "last_name",
		Limit:   authorSearchLimit,
	})
	if err != nil {
		return nil, err
	}
	authors := make([]*types.Author, 0, len(found))
	for _, e := range found {
		authors = append(authors, e.(*types.Author))
	}
	return authors, nil
}

// AddAuthor stores a new author.
func (l *Library) AddAuthor(first, last, patronymic string) (*types.Author, error) {
	l.success = false
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || last == "" {
		return nil, fmt.Errorf("%w: author needs first and last name", types.ErrInvalidName)
	}
	a := types.NewAuthor(first, last)
	a.Patronymic = strings.TrimSpace(patronymic)
	if _, err := l.exec.Insert(a); err != nil {
		return nil, l.abort(fmt.Errorf("add author %s: %w", a.FullName(), err))
	}
	if err := l.commit(); err != nil {
		return nil, err
	}
	return a, nil
}

// Authorships returns the author links of a book.
func (l *Library) Authorships(bookID int64) ([]*types.Authorship, error) {
	found, err := l.exec.Select(types.AuthorshipModel, sqlite.Query{
		Where:   "book_id = ?",
		Args:    []any{bookID},
		OrderBy: "authorship_id",
	})
	if err != nil {
		return nil, err
	}
	links := make([]*types.Authorship, 0, len(found))
	for _, e := range found {
		links = append(links, e.(*types.Authorship))
	}
	return links, nil
}

// AddAuthorship links an author to a book.
func (l *Library) AddAuthorship(bookID, authorID int64) error {
	l.success = false
	if _, err := l.exec.Insert(types.NewAuthorship(bookID, authorID)); err != nil {
		return l.abort(fmt.Errorf("link author %d to book %d: %w", authorID, bookID, err))
	}
	return l.commit()
}
