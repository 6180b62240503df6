package querybuilder

import (
	"reflect"
	"strings"
	"sync"

	crerr "github.com/cockroachdb/errors"
)

type modelField struct {
	column string
	index  int
}

// modelFields caches the db-tagged fields per struct type.
var modelFields sync.Map

func fieldsOf(typ reflect.Type) []modelField {
	if cached, ok := modelFields.Load(typ); ok {
		return cached.([]modelField)
	}

	var fields []modelField
	for i := range typ.NumField() {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		fields = append(fields, modelField{column: col, index: i})
	}

	actual, _ := modelFields.LoadOrStore(typ, fields)
	return actual.([]modelField)
}

// ModelColumns returns the db-tagged columns of a struct and their values in
// field order. Unexported, untagged and "-" fields are skipped.
func ModelColumns(model any) ([]string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, crerr.New("model: nil pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, crerr.Newf("model: %s is not a struct", v.Kind())
	}

	fields := fieldsOf(v.Type())
	if len(fields) == 0 {
		return nil, nil, crerr.Newf("model: %s has no db columns", v.Type())
	}

	cols := make([]string, len(fields))
	vals := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.column
		vals[i] = v.Field(f.index).Interface()
	}
	return cols, vals, nil
}
