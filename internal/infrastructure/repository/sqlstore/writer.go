package sqlstore

import (
	"context"
	"reflect"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	qb "github.com/riskibarqy/football-etl/internal/platform/querybuilder"
)

var errUnregisteredEntity = crerr.New("unregistered entity")

type txWriter struct {
	tx       *sqlx.Tx
	registry *Registry
}

// Upsert writes rec as exactly one row, replacing any row with the same key.
// Identity is checked before any SQL runs.
func (w *txWriter) Upsert(ctx context.Context, rec entity.Record) error {
	table, ok := w.registry.Lookup(rec.EntityName())
	if !ok {
		return entity.WrapStorage(crerr.Wrapf(errUnregisteredEntity, "%s", rec.EntityName()), "upsert", rec.EntityName())
	}

	cols, vals, err := qb.ModelColumns(rec)
	if err != nil {
		return entity.WrapStorage(err, "upsert", table.Name)
	}
	if missing := missingKeyParts(table, cols, vals); len(missing) > 0 {
		return entity.NewMissingKey(table.Name, missing...)
	}

	query, args, err := qb.InsertInto(table.Name).
		Columns(cols...).
		Values(vals...).
		Suffix(qb.OnConflictUpdate(table.Key, cols)).
		ToSQL()
	if err != nil {
		return entity.WrapStorage(err, "build upsert", table.Name)
	}

	if _, err := w.tx.ExecContext(ctx, w.tx.Rebind(query), derefArgs(args)...); err != nil {
		return entity.WrapStorage(err, "upsert", table.Name)
	}
	return nil
}

// Clear deletes every row of entityName whose scopeColumn equals value. Only
// columns registered as clearable are accepted.
func (w *txWriter) Clear(ctx context.Context, entityName, scopeColumn string, value any) (int64, error) {
	table, ok := w.registry.Lookup(entityName)
	if !ok {
		return 0, entity.WrapStorage(crerr.Wrapf(errUnregisteredEntity, "%s", entityName), "clear", entityName)
	}
	if !table.canClear(scopeColumn) {
		return 0, entity.WrapStorage(crerr.Newf("column %s is not a clear scope", scopeColumn), "clear", entityName)
	}

	query, args, err := qb.DeleteFrom(table.Name).Where(qb.Eq(scopeColumn, value)).ToSQL()
	if err != nil {
		return 0, entity.WrapStorage(err, "build clear", table.Name)
	}

	res, err := w.tx.ExecContext(ctx, w.tx.Rebind(query), args...)
	if err != nil {
		return 0, entity.WrapStorage(err, "clear", table.Name)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, entity.WrapStorage(err, "clear rows affected", table.Name)
	}
	return affected, nil
}

func missingKeyParts(table Table, cols []string, vals []any) []string {
	var missing []string
	for _, req := range table.Required {
		idx := indexOf(cols, req)
		if idx < 0 || isZeroKey(vals[idx]) {
			missing = append(missing, req)
		}
	}
	return missing
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}

func isZeroKey(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return true
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	default:
		return rv.IsZero()
	}
}

// derefArgs turns optional fields into plain driver values so unset pointers
// bind as NULL on every driver.
func derefArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		rv := reflect.ValueOf(arg)
		if rv.Kind() != reflect.Pointer {
			out[i] = arg
			continue
		}
		if rv.IsNil() {
			out[i] = nil
			continue
		}
		out[i] = rv.Elem().Interface()
	}
	return out
}
