package types

import (
	"fmt"
	"time"
)

// ReservedCategoryID is the category assigned to new books. It is seeded
// first and may not be deleted.
const ReservedCategoryID int64 = 1

// BookModel describes the books table.
var BookModel = &Model{
	Table:      TableBooks,
	PrimaryKey: "book_id",
	Columns: []Column{
		{Name: "book_id", Type: "INTEGER PRIMARY KEY NOT NULL"},
		{Name: "title", Type: "TEXT NOT NULL"},
		{Name: "pages", Type: "INTEGER DEFAULT 0"},
		{Name: "read_state", Type: "INTEGER DEFAULT 0"},
		{Name: "rating", Type: "INTEGER DEFAULT 0"},
		{Name: "bookmark", Type: "INTEGER DEFAULT 0"},
		{Name: "series_num", Type: "INTEGER DEFAULT 0"},
		{Name: "time_created", Type: "TEXT NOT NULL"},
		{Name: "pub_date", Type: "TEXT"},
		{Name: "isbn", Type: "TEXT"},
		{Name: "file", Type: "TEXT NOT NULL"},
		{Name: "cover", Type: "TEXT"},
		{Name: "category", Type: "INTEGER REFERENCES categories (category_id) ON DELETE CASCADE ON UPDATE CASCADE"},
		{Name: "series", Type: "INTEGER REFERENCES series (series_id) ON DELETE CASCADE ON UPDATE CASCADE"},
	},
	New: func() Entity { return &Book{} },
}

// Book is a book file stored in the library.
type Book struct {
	BookID      int64     // Engine-assigned id, 0 before insert.
	Title       string    // Required.
	Pages       int64     // Page count reported by the file, 0 if unknown.
	ReadState   int64     // Pages read.
	Rating      int64     // 0..5.
	Bookmark    bool      // Shown under the Bookmarks tag.
	SeriesNum   int64     // Position within Series.
	TimeCreated time.Time // Insertion time, listing order.
	PubDate     string    // Free-form publication date.
	ISBN        string
	File        string // Book file name inside the library books dir.
	Cover       string // Cover file name inside the library covers dir.
	Category    int64  // Category id; ReservedCategoryID by default.
	Series      int64  // Series id; 0 when the book has no series.
}

// NewBook returns a book in the reserved category.
func NewBook(title, file string, created time.Time) *Book {
	return &Book{
		Title:       title,
		File:        file,
		TimeCreated: created,
		Category:    ReservedCategoryID,
	}
}

func (b *Book) Model() *Model { return BookModel }

func (b *Book) ID() int64 { return b.BookID }

func (b *Book) Values() Record {
	return Record{
		{"book_id", b.BookID},
		{"title", b.Title},
		{"pages", b.Pages},
		{"read_state", b.ReadState},
		{"rating", b.Rating},
		{"bookmark", b.Bookmark},
		{"series_num", b.SeriesNum},
		{"time_created", b.TimeCreated},
		{"pub_date", b.PubDate},
		{"isbn", b.ISBN},
		{"file", b.File},
		{"cover", b.Cover},
		{"category", b.Category},
		{"series", nullID(b.Series)},
	}
}

func (b *Book) Assign(column string, value any) error {
	var err error
	switch column {
	case "book_id":
		b.BookID, err = toInt64(value)
	case "title":
		b.Title = toString(value)
	case "pages":
		b.Pages, err = toInt64(value)
	case "read_state":
		b.ReadState, err = toInt64(value)
	case "rating":
		b.Rating, err = toInt64(value)
	case "bookmark":
		b.Bookmark, err = toBool(value)
	case "series_num":
		b.SeriesNum, err = toInt64(value)
	case "time_created":
		b.TimeCreated, err = ParseTimestamp(toString(value))
	case "pub_date":
		b.PubDate = toString(value)
	case "isbn":
		b.ISBN = toString(value)
	case "file":
		b.File = toString(value)
	case "cover":
		b.Cover = toString(value)
	case "category":
		b.Category, err = toInt64(value)
	case "series":
		b.Series, err = toInt64(value)
	}
	if err != nil {
		return fmt.Errorf("book %s: %w", column, err)
	}
	return nil
}

func (b *Book) String() string {
	return fmt.Sprintf("Book %d %q", b.BookID, b.Title)
}
