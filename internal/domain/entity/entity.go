package entity

import "context"

// Record is one row-shaped value of a registered entity type. Struct fields
// carry `db` tags naming their column; pointer fields are optional and are
// persisted as NULL when nil.
type Record interface {
	EntityName() string
}

// Writer persists records inside an open transaction.
type Writer interface {
	// Upsert writes exactly one row, replacing any row with the same key.
	Upsert(ctx context.Context, record Record) error
	// Clear deletes every row of entityName whose scope column equals value.
	// Only scopes declared clearable by the schema registry are accepted.
	Clear(ctx context.Context, entityName, scopeColumn string, value any) (int64, error)
}

// TxRunner runs fn inside one transaction. The transaction commits when fn
// returns nil and rolls back otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, w Writer) error) error
}
