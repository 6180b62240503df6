package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// SkippedRecord is a record left out of an otherwise successful write
// because it, or a record it depends on, had no identity.
type SkippedRecord struct {
	FixtureID int64       `json:"fixture_id,omitempty"`
	Entity    string      `json:"entity"`
	Kind      entity.Kind `json:"kind"`
	Message   string      `json:"message"`
}

// recordApplier writes records through one transaction's writer. A record
// with a missing key is skipped and remembered. Every other error is
// returned.
type recordApplier struct {
	w         entity.Writer
	fixtureID int64
	logger    *logging.Logger

	written int
	skipped []SkippedRecord
}

func newRecordApplier(w entity.Writer, fixtureID int64, logger *logging.Logger) *recordApplier {
	return &recordApplier{w: w, fixtureID: fixtureID, logger: logger}
}

// put upserts rec and reports whether it was written.
func (a *recordApplier) put(ctx context.Context, rec entity.Record) (bool, error) {
	err := a.w.Upsert(ctx, rec)
	switch {
	case err == nil:
		a.written++
		return true, nil
	case crerr.Is(err, entity.ErrMissingKey):
		a.skip(ctx, rec.EntityName(), err.Error())
		return false, nil
	default:
		return false, err
	}
}

// putIf writes rec when ok is true and otherwise records it as skipped
// because of an unwritten dependency.
func (a *recordApplier) putIf(ctx context.Context, ok bool, rec entity.Record) (bool, error) {
	if !ok {
		a.skip(ctx, rec.EntityName(), "depends on a skipped record")
		return false, nil
	}
	return a.put(ctx, rec)
}

func (a *recordApplier) skip(ctx context.Context, entityName, message string) {
	a.skipped = append(a.skipped, SkippedRecord{
		FixtureID: a.fixtureID,
		Entity:    entityName,
		Kind:      entity.KindMissingKey,
		Message:   message,
	})
	a.logger.WarnContext(ctx, "skip record without identity",
		"fixture_id", a.fixtureID,
		"entity", entityName,
		"reason", message,
	)
}

// putOptional writes rec when present. An absent record counts as written
// so its dependents are not skipped.
func putOptional[T entity.Record](ctx context.Context, a *recordApplier, rec *T) (bool, error) {
	if rec == nil {
		return true, nil
	}
	return a.put(ctx, *rec)
}
