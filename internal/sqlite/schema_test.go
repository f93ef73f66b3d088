package sqlite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

func TestCreateTableSQL(t *testing.T) {
	tests := []struct {
		name  string
		model *types.Model
		want  string
	}{
		{
			name:  "categories",
			model: types.CategoryModel,
			want:  "CREATE TABLE categories (category_id INTEGER PRIMARY KEY NOT NULL, category_name TEXT NOT NULL);",
		},
		{
			name:  "authors with unique clause",
			model: types.AuthorModel,
			want: "CREATE TABLE authors (author_id INTEGER PRIMARY KEY NOT NULL, first_name TEXT NOT NULL, " +
				"last_name TEXT NOT NULL, patronymic TEXT DEFAULT NULL, UNIQUE (first_name, last_name));",
		},
		{
			name: "internal and derived columns are skipped",
			model: &types.Model{
				Table: "things",
				Columns: []types.Column{
					{Name: "thing_id", Type: "INTEGER PRIMARY KEY NOT NULL"},
					{Name: "_session", Type: "TEXT"},
					{Name: "label", Type: "TEXT"},
					{Name: "label_upper", Type: "TEXT", Derived: true},
				},
			},
			want: "CREATE TABLE things (thing_id INTEGER PRIMARY KEY NOT NULL, label TEXT);",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateTableSQL(tt.model)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateTableSQLOneClausePerColumn(t *testing.T) {
	for _, m := range types.Models {
		ddl, err := CreateTableSQL(m)
		require.NoError(t, err)
		for _, c := range m.Eligible() {
			assert.Equal(t, 1, strings.Count(ddl, c.Name+" "+c.Type), "%s.%s", m.Table, c.Name)
		}
	}
}

func TestCreateTableSQLErrors(t *testing.T) {
	_, err := CreateTableSQL(&types.Model{})
	assert.ErrorIs(t, err, types.ErrSchema)

	_, err = CreateTableSQL(&types.Model{Table: "empty"})
	assert.ErrorIs(t, err, types.ErrSchema)

	_, err = CreateTableSQL(&types.Model{
		Table:   "bad",
		Unique:  []string{"missing"},
		Columns: []types.Column{{Name: "id", Type: "INTEGER"}},
	})
	assert.ErrorIs(t, err, types.ErrSchema)
}
