package types

import "strings"

// InternalPrefix marks column names that never reach the schema or an
// INSERT statement.
const InternalPrefix = "_"

// Column describes one attribute of an entity and the literal type and
// constraint text used for its table column, e.g. "INTEGER PRIMARY KEY NOT NULL".
type Column struct {
	Name    string
	Type    string
	Derived bool // computed from other columns; no backing column
}

// Model is the declarative descriptor of a persisted entity.
type Model struct {
	Table      string
	PrimaryKey string
	// UniqueKey addresses a record for update/delete when PrimaryKey is empty.
	UniqueKey string
	// Unique is rendered as a table-level UNIQUE (...) clause.
	Unique  []string
	Columns []Column
	// New returns an empty entity of this model, used to map result rows.
	New func() Entity
}

// Eligible returns the columns backed by a table column, in declaration order.
func (m *Model) Eligible() []Column {
	cols := make([]Column, 0, len(m.Columns))
	for _, c := range m.Columns {
		if c.Derived || strings.HasPrefix(c.Name, InternalPrefix) {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// Column looks up an eligible column by name.
func (m *Model) Column(name string) (Column, bool) {
	for _, c := range m.Eligible() {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Key returns the column used to address a single record: the primary key,
// or the unique key when the model has no primary key.
func (m *Model) Key() string {
	if m.PrimaryKey != "" {
		return m.PrimaryKey
	}
	return m.UniqueKey
}

// Entity is a typed record bound to a Model.
type Entity interface {
	// Model returns the descriptor shared by all entities of this type.
	Model() *Model
	// ID returns the value of the primary key; 0 before insertion.
	ID() int64
	// Values returns every column value in declaration order.
	Values() Record
	// Assign sets the attribute backing column from a driver value.
	// Unknown columns are ignored.
	Assign(column string, value any) error
}
