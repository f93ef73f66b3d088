// Package sqlite maps booklib entity descriptors onto a SQLite database. It
// renders table definitions, serializes values, and runs CRUD statements over
// a single connection with explicit transactions.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/booklib/pkg/types"
)

// Sort directions accepted by Query.
const (
	Asc  = "ASC"
	Desc = "DESC"
)

// Query narrows a Select. Where is trusted SQL text whose placeholders are
// bound from Args. OrderBy must name a column of the selected model.
type Query struct {
	Where     string
	Args      []any
	OrderBy   string
	Direction string
	Limit     int
}

// Executor runs statements against one SQLite file. The connection opens on
// the first statement, which also begins a transaction that stays open until
// Commit or Rollback. An Executor is not safe for concurrent use.
type Executor struct {
	path   string
	logger *slog.Logger
	db     *sql.DB
	tx     *sql.Tx
	lastID int64
}

// NewExecutor returns an executor for the database at path. Nothing is opened
// until the first statement runs.
func NewExecutor(path string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{path: path, logger: logger.With("db", path)}
}

// Path returns the database file path.
func (e *Executor) Path() string { return e.path }

func (e *Executor) begin() (*sql.Tx, error) {
	if e.tx != nil {
		return e.tx, nil
	}
	if e.db == nil {
		db, err := sql.Open("sqlite", e.path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", e.path, err)
		}
		db.SetMaxOpenConns(1)
		e.db = db
	}
	tx, err := e.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	e.tx = tx
	return tx, nil
}

// CreateTable creates the table described by m.
func (e *Executor) CreateTable(m *types.Model) error {
	ddl, err := CreateTableSQL(m)
	if err != nil {
		return err
	}
	if _, err := e.exec(ddl); err != nil {
		return fmt.Errorf("%w: %v", types.ErrSchema, err)
	}
	return nil
}

// Insert writes every eligible column of ent, leaving out a zero primary key
// so the engine assigns one. The new row id is stored on ent and returned.
// Insert does not commit.
func (e *Executor) Insert(ent types.Entity) (int64, error) {
	m := ent.Model()
	values := ent.Values()

	var (
		cols  []string
		marks []string
		args  []any
	)
	for _, c := range m.Eligible() {
		v, _ := values.Get(c.Name)
		if c.Name == m.PrimaryKey && ent.ID() == 0 {
			continue
		}
		cols = append(cols, c.Name)
		marks = append(marks, "?")
		args = append(args, BindValue(v, c.Type))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		m.Table, strings.Join(cols, ", "), strings.Join(marks, ", "))
	res, err := e.exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", m.Table, err)
	}
	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return 0, fmt.Errorf("insert into %s: %w", m.Table, types.ErrNoInsertID)
	}
	e.lastID = id
	if m.PrimaryKey != "" {
		if err := ent.Assign(m.PrimaryKey, id); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Select returns the entities of m matching q. No match returns nil and no
// error.
func (e *Executor) Select(m *types.Model, q Query) ([]types.Entity, error) {
	cols := m.Eligible()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(names, ", "), m.Table)
	if q.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(q.Where)
	}
	if q.OrderBy != "" {
		if _, ok := m.Column(q.OrderBy); !ok {
			return nil, fmt.Errorf("%w: %s.%s", types.ErrUnknownColumn, m.Table, q.OrderBy)
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
		switch dir := strings.ToUpper(q.Direction); dir {
		case "":
		case Asc, Desc:
			b.WriteString(" " + dir)
		default:
			return nil, fmt.Errorf("%w: %q", types.ErrInvalidOrder, q.Direction)
		}
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	b.WriteString(";")

	return e.ExecuteModel(m, b.String(), q.Args...)
}

// Update sets the given columns of the row addressed by ent's key. Columns
// are written in declaration order; every key of changes must be a column
// of the model. ent itself is not modified.
func (e *Executor) Update(ent types.Entity, changes map[string]any) error {
	m := ent.Model()
	key, keyValue, err := address(ent)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return types.ErrNoChanges
	}
	for name := range changes {
		if _, ok := m.Column(name); !ok {
			return fmt.Errorf("%w: %s.%s", types.ErrUnknownColumn, m.Table, name)
		}
	}

	var (
		sets []string
		args []any
	)
	for _, c := range m.Eligible() {
		v, ok := changes[c.Name]
		if !ok {
			continue
		}
		sets = append(sets, c.Name+" = ?")
		args = append(args, BindValue(v, c.Type))
	}
	args = append(args, keyValue)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?;", m.Table, strings.Join(sets, ", "), key)
	if _, err := e.exec(query, args...); err != nil {
		return fmt.Errorf("update %s: %w", m.Table, err)
	}
	return nil
}

// Delete removes the row addressed by ent's key.
func (e *Executor) Delete(ent types.Entity) error {
	m := ent.Model()
	key, keyValue, err := address(ent)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?;", m.Table, key)
	if _, err := e.exec(query, keyValue); err != nil {
		return fmt.Errorf("delete from %s: %w", m.Table, err)
	}
	return nil
}

func address(ent types.Entity) (string, any, error) {
	m := ent.Model()
	key := m.Key()
	if key == "" {
		return "", nil, fmt.Errorf("%w: %s", types.ErrNoKey, m.Table)
	}
	col, ok := m.Column(key)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s.%s", types.ErrNoKey, m.Table, key)
	}
	v, _ := ent.Values().Get(key)
	bound := BindValue(v, col.Type)
	if bound == nil {
		return "", nil, fmt.Errorf("%w: %s.%s is empty", types.ErrNoKey, m.Table, key)
	}
	return key, bound, nil
}

// Execute runs a raw statement and returns its rows in column order.
// Statements without a result set, and queries matching nothing, return nil.
func (e *Executor) Execute(query string, args ...any) ([]types.Record, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}
	if !returnsRows(query) {
		_, err := e.exec(query, args...)
		return nil, err
	}
	rows, err := e.query(query, args...)
	if err != nil {
		return nil, err
	}
	return scanRecords(rows)
}

// ExecuteModel runs a raw query and maps each row onto a new entity of m.
// Result columns that m does not know are ignored.
func (e *Executor) ExecuteModel(m *types.Model, query string, args ...any) ([]types.Entity, error) {
	records, err := e.Execute(query, args...)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	entities := make([]types.Entity, 0, len(records))
	for _, r := range records {
		ent := m.New()
		for _, f := range r {
			if err := ent.Assign(f.Name, f.Value); err != nil {
				return nil, err
			}
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

// Exec runs a statement without a result set and returns the number of
// affected rows.
func (e *Executor) Exec(query string, args ...any) (int64, error) {
	if strings.TrimSpace(query) == "" {
		return 0, types.ErrEmptyQuery
	}
	res, err := e.exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (e *Executor) exec(query string, args ...any) (sql.Result, error) {
	tx, err := e.begin()
	if err != nil {
		return nil, err
	}
	e.logger.Debug("exec", "sql", renderStatement(query, args))
	res, err := tx.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		e.lastID = id
	}
	return res, nil
}

func (e *Executor) query(query string, args ...any) (*sql.Rows, error) {
	tx, err := e.begin()
	if err != nil {
		return nil, err
	}
	e.logger.Debug("query", "sql", renderStatement(query, args))
	return tx.Query(query, args...)
}

// LastInsertID returns the row id assigned by the most recent insert.
func (e *Executor) LastInsertID() int64 { return e.lastID }

// Commit commits the open transaction, if any.
func (e *Executor) Commit() error {
	if e.tx == nil {
		return nil
	}
	err := e.tx.Commit()
	e.tx = nil
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback discards the open transaction, if any.
func (e *Executor) Rollback() error {
	if e.tx == nil {
		return nil
	}
	err := e.tx.Rollback()
	e.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// Close discards uncommitted work and closes the connection. Close is
// idempotent; a later statement reopens the database.
func (e *Executor) Close() error {
	rbErr := e.Rollback()
	if e.db == nil {
		return rbErr
	}
	err := e.db.Close()
	e.db = nil
	return errors.Join(rbErr, err)
}
