package types

import (
	"fmt"
	"strings"
)

// AuthorModel describes the authors table. The (first_name, last_name) pair
// is unique.
var AuthorModel = &Model{
	Table:      TableAuthors,
	PrimaryKey: "author_id",
	Unique:     []string{"first_name", "last_name"},
	Columns: []Column{
		{Name: "author_id", Type: "INTEGER PRIMARY KEY NOT NULL"},
		{Name: "first_name", Type: "TEXT NOT NULL"},
		{Name: "last_name", Type: "TEXT NOT NULL"},
		{Name: "patronymic", Type: "TEXT DEFAULT NULL"},
	},
	New: func() Entity { return &Author{} },
}

// Author is a person credited on one or more books.
type Author struct {
	AuthorID   int64
	FirstName  string
	LastName   string
	Patronymic string
}

// NewAuthor returns an author with the given names.
func NewAuthor(first, last string) *Author {
	return &Author{FirstName: first, LastName: last}
}

func (a *Author) Model() *Model { return AuthorModel }

func (a *Author) ID() int64 { return a.AuthorID }

func (a *Author) Values() Record {
	return Record{
		{"author_id", a.AuthorID},
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"patronymic", a.Patronymic},
	}
}

func (a *Author) Assign(column string, value any) error {
	switch column {
	case "author_id":
		id, err := toInt64(value)
		if err != nil {
			return fmt.Errorf("author %s: %w", column, err)
		}
		a.AuthorID = id
	case "first_name":
		a.FirstName = toString(value)
	case "last_name":
		a.LastName = toString(value)
	case "patronymic":
		a.Patronymic = toString(value)
	}
	return nil
}

// FullName returns "Last First Patronymic" without empty parts.
func (a *Author) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.LastName, a.FirstName, a.Patronymic} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (a *Author) String() string {
	return fmt.Sprintf("Author %d %s", a.AuthorID, a.FullName())
}

// AuthorshipModel describes the authorships join table.
var AuthorshipModel = &Model{
	Table:      TableAuthorships,
	PrimaryKey: "authorship_id",
	Unique:     []string{"book_id", "author_id"},
	Columns: []Column{
		{Name: "authorship_id", Type: "INTEGER PRIMARY KEY NOT NULL"},
		{Name: "book_id", Type: "INTEGER REFERENCES books (book_id) ON DELETE CASCADE ON UPDATE CASCADE"},
		{Name: "author_id", Type: "INTEGER REFERENCES authors (author_id) ON DELETE CASCADE ON UPDATE CASCADE"},
	},
	New: func() Entity { return &Authorship{} },
}

// Authorship links a book to one of its authors.
type Authorship struct {
	AuthorshipID int64
	BookID       int64
	AuthorID     int64
}

// NewAuthorship links bookID to authorID.
func NewAuthorship(bookID, authorID int64) *Authorship {
	return &Authorship{BookID: bookID, AuthorID: authorID}
}

func (a *Authorship) Model() *Model { return AuthorshipModel }

func (a *Authorship) ID() int64 { return a.AuthorshipID }

func (a *Authorship) Values() Record {
	return Record{
		{"authorship_id", a.AuthorshipID},
		{"book_id", a.BookID},
		{"author_id", a.AuthorID},
	}
}

func (a *Authorship) Assign(column string, value any) error {
	var dst *int64
	switch column {
	case "authorship_id":
		dst = &a.AuthorshipID
	case "book_id":
		dst = &a.BookID
	case "author_id":
		dst = &a.AuthorID
	default:
		return nil
	}
	n, err := toInt64(value)
	if err != nil {
		return fmt.Errorf("authorship %s: %w", column, err)
	}
	*dst = n
	return nil
}
