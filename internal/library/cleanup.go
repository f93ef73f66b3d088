package library

import (
	"github.com/mesh-intelligence/booklib/pkg/types"
)

const (
	deleteOrphanAuthorships = `DELETE FROM authorships WHERE authorship_id IN (
	SELECT a.authorship_id
	FROM authorships a
	LEFT JOIN books b ON b.book_id = a.book_id
	WHERE b.book_id IS NULL);`

	deleteOrphanAuthors = `DELETE FROM authors WHERE author_id IN (
	SELECT a.author_id
	FROM authors a
	LEFT JOIN authorships ash ON ash.author_id = a.author_id
	WHERE ash.authorship_id IS NULL);`

	deleteOrphanSeries = `DELETE FROM series WHERE series_id IN (
	SELECT s.series_id
	FROM series s
	LEFT JOIN books b ON b.series = s.series_id
	WHERE b.book_id IS NULL);`

	deleteOrphanCategories = `DELETE FROM categories WHERE category_id <> ? AND category_id IN (
	SELECT c.category_id
	FROM categories c
	LEFT JOIN books b ON b.category = c.category_id
	WHERE b.book_id IS NULL);`
)

// Orphans counts the rows removed by CleanOrphans.
type Orphans struct {
	Authorships int64 `json:"authorships"`
	Authors     int64 `json:"authors"`
}

// CleanOrphans removes authorships whose book is gone, then authors left
// without any authorship.
func (l *Library) CleanOrphans() (Orphans, error) {
	l.success = false
	var o Orphans
	var err error
	if o.Authorships, err = l.exec.Exec(deleteOrphanAuthorships); err != nil {
		return Orphans{}, l.abort(err)
	}
	if o.Authors, err = l.exec.Exec(deleteOrphanAuthors); err != nil {
		return Orphans{}, l.abort(err)
	}
	if err := l.commit(); err != nil {
		return Orphans{}, err
	}
	l.logger.Info("removed orphans", "authorships", o.Authorships, "authors", o.Authors)
	return o, nil
}

// DeleteOrphanSeries removes series no book belongs to.
func (l *Library) DeleteOrphanSeries() (int64, error) {
	return l.deleteOrphans(types.TableSeries, deleteOrphanSeries)
}

// DeleteOrphanCategories removes categories no book belongs to, except the
// reserved category.
func (l *Library) DeleteOrphanCategories() (int64, error) {
	return l.deleteOrphans(types.TableCategories, deleteOrphanCategories, types.ReservedCategoryID)
}

func (l *Library) deleteOrphans(table, query string, args ...any) (int64, error) {
	l.success = false
	n, err := l.exec.Exec(query, args...)
	if err != nil {
		return 0, l.abort(err)
	}
	if err := l.commit(); err != nil {
		return 0, err
	}
	l.logger.Info("removed orphans", "table", table, "rows", n)
	return n, nil
}
