package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

func TestOpenInitializesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib", "booklib.db")
	e, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := e.Select(types.CategoryModel, Query{OrderBy: "category_id"})
	require.NoError(t, err)
	require.Len(t, got, len(DefaultCategories))
	first := got[0].(*types.Category)
	assert.Equal(t, types.ReservedCategoryID, first.ID())
	assert.Equal(t, "new", first.Name)

	for _, table := range []string{
		types.TableBooks, types.TableAuthors, types.TableAuthorships, types.TableCategories, types.TableSeries,
	} {
		recs, err := e.Execute("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		require.NoError(t, err)
		assert.Len(t, recs, 1, table)
	}
}

func TestOpenExistingDatabaseDoesNotReseed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "booklib.db")
	e, err := Open(path, nil)
	require.NoError(t, err)
	_, err = e.Insert(types.NewCategory("poetry"))
	require.NoError(t, err)
	require.NoError(t, e.Commit())
	require.NoError(t, e.Close())

	e, err = Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	recs, err := e.Execute("SELECT count(*) AS n FROM categories")
	require.NoError(t, err)
	n, _ := recs[0].Get("n")
	assert.Equal(t, int64(len(DefaultCategories)+1), n)
}

func TestInitializeTwiceFailsWithSchemaError(t *testing.T) {
	e := newTestExecutor(t)
	err := Initialize(e)
	assert.ErrorIs(t, err, types.ErrSchema)
}
