package types

import (
	"fmt"
	"strings"
)

// TagKind selects one of the ways books are grouped.
type TagKind int

const (
	TagCategory TagKind = iota + 1
	TagSeries
	TagBookmark
)

// TagKinds lists the tag kinds in display order.
var TagKinds = []TagKind{TagCategory, TagSeries, TagBookmark}

func (k TagKind) String() string {
	switch k {
	case TagCategory:
		return "category"
	case TagSeries:
		return "series"
	case TagBookmark:
		return "bookmark"
	}
	return fmt.Sprintf("TagKind(%d)", int(k))
}

// ParseTagKind accepts the names returned by String, case-insensitively.
func ParseTagKind(s string) (TagKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "category", "categories":
		return TagCategory, nil
	case "series":
		return TagSeries, nil
	case "bookmark", "bookmarks":
		return TagBookmark, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Model returns the descriptor of the stored kinds. Bookmarks have no table
// and return nil.
func (k TagKind) Model() *Model {
	switch k {
	case TagCategory:
		return CategoryModel
	case TagSeries:
		return SeriesModel
	}
	return nil
}

// BookColumn is the books column that references this kind.
func (k TagKind) BookColumn() string {
	switch k {
	case TagCategory:
		return "category"
	case TagSeries:
		return "series"
	case TagBookmark:
		return "bookmark"
	}
	return ""
}

// IDColumn is the primary key of the kind's table.
func (k TagKind) IDColumn() string {
	switch k {
	case TagCategory:
		return "category_id"
	case TagSeries:
		return "series_id"
	}
	return ""
}

// NameColumn is the name column of the kind's table.
func (k TagKind) NameColumn() string {
	switch k {
	case TagCategory:
		return "category_name"
	case TagSeries:
		return "series_name"
	}
	return ""
}

// Valid reports whether k is one of the declared kinds.
func (k TagKind) Valid() bool {
	switch k {
	case TagCategory, TagSeries, TagBookmark:
		return true
	}
	return false
}

// Tag is the kind-independent view of a category, a series or the
// bookmark sentinel.
type Tag struct {
	Kind TagKind `json:"kind"`
	ID   int64   `json:"id"`
	Name string  `json:"name"`
}

// Bookmark is the synthetic tag listing bookmarked books. Its id is always
// 0 and it is never written to the database.
var Bookmark = Tag{Kind: TagBookmark, ID: 0, Name: "Bookmarks"}

// Stored reports whether the tag corresponds to a database row.
func (t Tag) Stored() bool {
	return t.Kind != TagBookmark && t.ID != 0
}

// Entity returns the stored entity for t. Bookmark has none.
func (t Tag) Entity() (Entity, error) {
	switch t.Kind {
	case TagCategory:
		return &Category{CategoryID: t.ID, Name: t.Name}, nil
	case TagSeries:
		return &Series{SeriesID: t.ID, Name: t.Name}, nil
	case TagBookmark:
		return nil, ErrNotPersisted
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(t.Kind))
}

func (t Tag) String() string {
	return fmt.Sprintf("%s %d %s", t.Kind, t.ID, t.Name)
}

// CategoryModel describes the categories table.
var CategoryModel = &Model{
	Table:      TableCategories,
	PrimaryKey: "category_id",
	Columns: []Column{
		{Name: "category_id", Type: "INTEGER PRIMARY KEY NOT NULL"},
		{Name: "category_name", Type: "TEXT NOT NULL"},
	},
	New: func() Entity { return &Category{} },
}

// Category groups books by subject.
type Category struct {
	CategoryID int64
	Name       string
}

// NewCategory returns an unsaved category.
func NewCategory(name string) *Category {
	return &Category{Name: name}
}

func (c *Category) Model() *Model { return CategoryModel }

func (c *Category) ID() int64 { return c.CategoryID }

func (c *Category) Values() Record {
	return Record{
		{"category_id", c.CategoryID},
		{"category_name", c.Name},
	}
}

func (c *Category) Assign(column string, value any) error {
	switch column {
	case "category_id":
		id, err := toInt64(value)
		if err != nil {
			return fmt.Errorf("category %s: %w", column, err)
		}
		c.CategoryID = id
	case "category_name":
		c.Name = toString(value)
	}
	return nil
}

// Tag returns the category as a Tag.
func (c *Category) Tag() Tag {
	return Tag{Kind: TagCategory, ID: c.CategoryID, Name: c.Name}
}

// SeriesModel describes the series table.
var SeriesModel = &Model{
	Table:      TableSeries,
	PrimaryKey: "series_id",
	Columns: []Column{
		{Name: "series_id", Type: "INTEGER PRIMARY KEY NOT NULL"},
		{Name: "series_name", Type: "TEXT NOT NULL"},
	},
	New: func() Entity { return &Series{} },
}

// Series is an ordered run of books.
type Series struct {
	SeriesID int64
	Name     string
}

// NewSeries returns an unsaved series.
func NewSeries(name string) *Series {
	return &Series{Name: name}
}

func (s *Series) Model() *Model { return SeriesModel }

func (s *Series) ID() int64 { return s.SeriesID }

func (s *Series) Values() Record {
	return Record{
		{"series_id", s.SeriesID},
		{"series_name", s.Name},
	}
}

func (s *Series) Assign(column string, value any) error {
	switch column {
	case "series_id":
		id, err := toInt64(value)
		if err != nil {
			return fmt.Errorf("series %s: %w", column, err)
		}
		s.SeriesID = id
	case "series_name":
		s.Name = toString(value)
	}
	return nil
}

// Tag returns the series as a Tag.
func (s *Series) Tag() Tag {
	return Tag{Kind: TagSeries, ID: s.SeriesID, Name: s.Name}
}

// NewTagEntity returns an unsaved entity of the stored kind k.
func NewTagEntity(k TagKind, name string) (Entity, error) {
	switch k {
	case TagCategory:
		return NewCategory(name), nil
	case TagSeries:
		return NewSeries(name), nil
	case TagBookmark:
		return nil, ErrNotPersisted
	}
	return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
}

// TagOf converts a category or series entity to a Tag.
func TagOf(e Entity) (Tag, bool) {
	switch v := e.(type) {
	case *Category:
		return v.Tag(), true
	case *Series:
		return v.Tag(), true
	}
	return Tag{}, false
}
