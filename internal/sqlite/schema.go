package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// CreateTableSQL renders the CREATE TABLE statement for m: one
// "name type" clause per eligible column in declaration order, then the
// table-level UNIQUE clause when the model declares one.
func CreateTableSQL(m *types.Model) (string, error) {
	if m == nil || m.Table == "" {
		return "", fmt.Errorf("%w: model has no table name", types.ErrSchema)
	}
	cols := m.Eligible()
	if len(cols) == 0 {
		return "", fmt.Errorf("%w: table %s has no columns", types.ErrSchema, m.Table)
	}

	clauses := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		clauses = append(clauses, strings.TrimSpace(c.Name+" "+c.Type))
	}
	if len(m.Unique) > 0 {
		for _, name := range m.Unique {
			if _, ok := m.Column(name); !ok {
				return "", fmt.Errorf("%w: unique column %s not in table %s", types.ErrSchema, name, m.Table)
			}
		}
		clauses = append(clauses, "UNIQUE ("+strings.Join(m.Unique, ", ")+")")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", m.Table, strings.Join(clauses, ", ")), nil
}
