package usecase

import (
	"context"
	"encoding/json"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// ApplyResult reports one bulk write.
type ApplyResult struct {
	Entity  string          `json:"entity"`
	Written int             `json:"written"`
	Cleared int64           `json:"cleared,omitempty"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
}

// ReferenceIngestor writes reference lists such as countries, leagues or
// types. Each call is one transaction.
type ReferenceIngestor struct {
	tx      entity.TxRunner
	decoder ReferenceDecoder
	logger  *logging.Logger
}

func NewReferenceIngestor(tx entity.TxRunner, decoder ReferenceDecoder, logger *logging.Logger) *ReferenceIngestor {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferenceIngestor{tx: tx, decoder: decoder, logger: logger}
}

// Ingest decodes items as kind and writes them. A malformed item fails the
// whole call before anything is written.
func (s *ReferenceIngestor) Ingest(ctx context.Context, kind string, items []json.RawMessage) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceIngestor.Ingest")
	defer func() { endSpan(span, err) }()

	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return ApplyResult{}, crerr.Wrap(ErrInvalidInput, "reference kind is required")
	}

	records, err := s.decoder.DecodeReference(kind, items)
	if err != nil {
		return ApplyResult{Entity: kind}, crerr.Wrapf(err, "decode %s", kind)
	}
	return s.Apply(ctx, kind, records)
}

// Apply writes already decoded records in order.
func (s *ReferenceIngestor) Apply(ctx context.Context, kind string, records []entity.Record) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceIngestor.Apply")
	defer func() { endSpan(span, err) }()

	result := ApplyResult{Entity: kind}
	if len(records) == 0 {
		return result, nil
	}

	var applied *recordApplier
	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		applied = newRecordApplier(w, 0, s.logger)
		for _, rec := range records {
			if _, err := applied.put(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return result, crerr.Wrapf(err, "apply %s", kind)
	}

	result.Written = applied.written
	result.Skipped = applied.skipped
	s.logger.InfoContext(ctx, "reference data applied",
		"kind", kind,
		"written", result.Written,
		"skipped", len(result.Skipped),
	)
	return result, nil
}
