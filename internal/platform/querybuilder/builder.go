// Package querybuilder renders the handful of statement shapes the store
// needs. Queries use `?` placeholders; callers bind them to the driver's
// style with sqlx Rebind.
package querybuilder

import (
	"slices"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// sqlWriter accumulates statement text and its bound arguments.
type sqlWriter struct {
	sb   strings.Builder
	args []any
}

func (w *sqlWriter) raw(parts ...string) {
	for _, p := range parts {
		w.sb.WriteString(p)
	}
}

func (w *sqlWriter) bind(v any) {
	w.sb.WriteByte('?')
	w.args = append(w.args, v)
}

// bindList writes "(?, ?, ...)" for values.
func (w *sqlWriter) bindList(values []any) {
	w.sb.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			w.sb.WriteString(", ")
		}
		w.bind(v)
	}
	w.sb.WriteByte(')')
}

func (w *sqlWriter) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.raw(" WHERE ")
		} else {
			w.raw(" AND ")
		}
		c.render(w)
	}
}

func (w *sqlWriter) result() (string, []any, error) {
	return w.sb.String(), w.args, nil
}

// Condition is one AND-ed predicate of a WHERE clause.
type Condition interface {
	render(w *sqlWriter)
}

type conditionFunc func(w *sqlWriter)

func (f conditionFunc) render(w *sqlWriter) { f(w) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(w *sqlWriter) {
		w.raw(column, " = ")
		w.bind(value)
	})
}

// In matches column against values. An empty list matches nothing.
func In(column string, values []any) Condition {
	return conditionFunc(func(w *sqlWriter) {
		if len(values) == 0 {
			w.raw("1=0")
			return
		}
		w.raw(column, " IN ")
		w.bindList(values)
	})
}

// Expr adds a raw predicate. Each `?` in expr consumes one of args in order.
func Expr(expr string, args ...any) Condition {
	return conditionFunc(func(w *sqlWriter) {
		w.raw(expr)
		w.args = append(w.args, args...)
	})
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(terms ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, terms...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, crerr.New("select: no columns")
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("select: no table")
	}

	var w sqlWriter
	w.raw("SELECT ", strings.Join(b.columns, ", "), " FROM ", b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.raw(" ORDER BY ", strings.Join(b.orderBy, ", "))
	}
	return w.result()
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

// Values appends one row. Call it once per row for multi-row inserts.
func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// Suffix is appended verbatim, typically an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("insert: no table")
	case len(b.columns) == 0:
		return "", nil, crerr.New("insert: no columns")
	case len(b.rows) == 0:
		return "", nil, crerr.New("insert: no rows")
	}

	var w sqlWriter
	w.raw("INSERT INTO ", b.table, " (", strings.Join(b.columns, ", "), ") VALUES ")
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, crerr.Newf("insert: row %d has %d values for %d columns", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.raw(", ")
		}
		w.bindList(row)
	}
	if b.suffix != "" {
		w.raw(" ", b.suffix)
	}
	return w.result()
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	b.where = append(b.where, conds...)
	return b
}

// ToSQL refuses to build an unscoped delete.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, crerr.New("delete: no table")
	case len(b.where) == 0:
		return "", nil, crerr.New("delete: at least one condition is required")
	}

	var w sqlWriter
	w.raw("DELETE FROM ", b.table)
	w.where(b.where)
	return w.result()
}

// OnConflictUpdate renders an upsert suffix that overwrites every non-key
// column with the incoming row. Both sqlite and postgres accept it.
func OnConflictUpdate(key []string, columns []string) string {
	conflict := "ON CONFLICT (" + strings.Join(key, ", ") + ")"

	var sets []string
	for _, col := range columns {
		if !slices.Contains(key, col) {
			sets = append(sets, col+" = EXCLUDED."+col)
		}
	}
	if len(sets) == 0 {
		return conflict + " DO NOTHING"
	}
	return conflict + " DO UPDATE SET " + strings.Join(sets, ", ")
}
