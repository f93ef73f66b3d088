package library

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/booklib/internal/sqlite"
	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Tags returns every tag of kind ordered by id. The bookmark kind has the
// single Bookmark tag.
func (l *Library) Tags(kind types.TagKind) ([]types.Tag, error) {
	switch kind {
	case types.TagBookmark:
		return []types.Tag{types.Bookmark}, nil
	case types.TagCategory, types.TagSeries:
		return l.findTags(kind, sqlite.Query{OrderBy: kind.IDColumn()})
	}
	return nil, fmt.Errorf("%w: %d", types.ErrInvalidKind, int(kind))
}

// TagByName returns the tag of kind with this exact name, or nil.
func (l *Library) TagByName(kind types.TagKind, name string) (*types.Tag, error) {
	if kind == types.TagBookmark {
		if name == types.Bookmark.Name {
			t := types.Bookmark
			return &t, nil
		}
		return nil, nil
	}
	return l.findTag(kind, kind.NameColumn()+" = ?", name)
}

// TagByID returns the tag of kind with this id, or nil.
func (l *Library) TagByID(kind types.TagKind, id int64) (*types.Tag, error) {
	if kind == types.TagBookmark {
		if id == types.Bookmark.ID {
			t := types.Bookmark
			return &t, nil
		}
		return nil, nil
	}
	return l.findTag(kind, kind.IDColumn()+" = ?", id)
}

func (l *Library) findTag(kind types.TagKind, where string, arg any) (*types.Tag, error) {
	tags, err := l.findTags(kind, sqlite.Query{Where: where, Args: []any{arg}, Limit: 1})
	if err != nil || len(tags) == 0 {
		return nil, err
	}
	return &tags[0], nil
}

func (l *Library) findTags(kind types.TagKind, q sqlite.Query) ([]types.Tag, error) {
	m := kind.Model()
	if m == nil {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidKind, int(kind))
	}
	found, err := l.exec.Select(m, q)
	if err != nil {
		return nil, err
	}
	var tags []types.Tag
	for _, e := range found {
		if t, ok := types.TagOf(e); ok {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// AddTag stores a new category or series.
func (l *Library) AddTag(kind types.TagKind, name string) (types.Tag, error) {
	l.success = false
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Tag{}, fmt.Errorf("%w: empty %s name", types.ErrInvalidName, kind)
	}
	ent, err := types.NewTagEntity(kind, name)
	if err != nil {
		return types.Tag{}, err
	}
	if _, err := l.exec.Insert(ent); err != nil {
		return types.Tag{}, l.abort(fmt.Errorf("add %s %q: %w", kind, name, err))
	}
	if err := l.commit(); err != nil {
		return types.Tag{}, err
	}
	t, _ := types.TagOf(ent)
	return t, nil
}

// DeleteTag removes a category or series that no book uses. The reserved
// category and the Bookmark tag cannot be deleted.
func (l *Library) DeleteTag(tag types.Tag) error {
	l.success = false
	if tag.Kind == types.TagCategory && tag.ID == types.ReservedCategoryID {
		return types.ErrReservedTag
	}
	if !tag.Stored() {
		return types.ErrNotPersisted
	}
	ent, err := tag.Entity()
	if err != nil {
		return err
	}

	used, err := l.countBooks(tag)
	if err != nil {
		return err
	}
	if used > 0 {
		return fmt.Errorf("%w: %s has %d books", types.ErrTagInUse, tag.Name, used)
	}
	if err := l.exec.Delete(ent); err != nil {
		return l.abort(err)
	}
	return l.commit()
}

func (l *Library) countBooks(tag types.Tag) (int64, error) {
	rows, err := l.exec.Execute(
		"SELECT count(*) AS n FROM books WHERE "+tag.Kind.BookColumn()+" = ?;", tag.ID)
	if err != nil || len(rows) == 0 {
		return 0, err
	}
	n, _ := rows[0].Get("n")
	count, _ := n.(int64)
	return count, nil
}
