package usecase

import (
	"context"
	"encoding/json"
	"runtime"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/sourcegraph/conc/stream"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

const (
	DefaultBatchSize = 50
	MaxBatchSize     = 1000
)

// BatchOptions bound one batch run. Zero values select the defaults.
type BatchOptions struct {
	ChunkSize     int `validate:"omitempty,min=1,max=1000"`
	DecodeWorkers int `validate:"omitempty,min=1,max=64"`
}

// BatchFailure is one fixture that could not be ingested.
type BatchFailure struct {
	Index     int         `json:"index"`
	FixtureID int64       `json:"fixture_id"`
	Kind      entity.Kind `json:"kind"`
	Message   string      `json:"message"`
}

type BatchSummary struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []BatchFailure  `json:"failures,omitempty"`
	Skipped   []SkippedRecord `json:"skipped,omitempty"`
}

// BatchIngestor decodes fixture payloads concurrently and applies them one at
// a time in input order.
type BatchIngestor struct {
	decoder   FixtureDecoder
	fixtures  *FixtureIngestor
	validator *validator.Validate
	logger    *logging.Logger
}

func NewBatchIngestor(decoder FixtureDecoder, fixtures *FixtureIngestor, logger *logging.Logger) *BatchIngestor {
	if logger == nil {
		logger = logging.Default()
	}
	return &BatchIngestor{
		decoder:   decoder,
		fixtures:  fixtures,
		validator: validator.New(),
		logger:    logger,
	}
}

type decodedFixture struct {
	index int
	doc   fixture.Document
	err   error
}

// Ingest applies every payload. Per-fixture missing keys and malformed
// payloads are recorded in the summary and the batch moves on. A storage
// failure or cancellation stops the batch; the summary built so far is
// returned with the error.
func (s *BatchIngestor) Ingest(ctx context.Context, payloads []json.RawMessage, opts BatchOptions) (_ BatchSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BatchIngestor.Ingest")
	defer func() { endSpan(span, err) }()

	summary := BatchSummary{Total: len(payloads)}
	if err := s.validator.StructCtx(ctx, opts); err != nil {
		return summary, crerr.Mark(crerr.Wrap(err, "batch options"), ErrInvalidInput)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultBatchSize
	}
	workers := opts.DecodeWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	for start := 0; start < len(payloads); start += chunkSize {
		end := min(start+chunkSize, len(payloads))
		if err := ctx.Err(); err != nil {
			return summary, crerr.Wrapf(err, "batch stopped before payload %d", start)
		}

		for _, item := range s.decodeChunk(payloads[start:end], start, workers) {
			if err := ctx.Err(); err != nil {
				return summary, crerr.Wrapf(err, "batch stopped before payload %d", item.index)
			}
			if err := s.applyOne(ctx, &summary, item); err != nil {
				return summary, err
			}
		}
	}

	s.logger.InfoContext(ctx, "fixture batch ingested",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped_records", len(summary.Skipped),
	)
	return summary, nil
}

// decodeChunk decodes payloads concurrently. Results come back in input
// order because stream callbacks run in submission order.
func (s *BatchIngestor) decodeChunk(payloads []json.RawMessage, offset, workers int) []decodedFixture {
	out := make([]decodedFixture, 0, len(payloads))
	decoders := stream.New().WithMaxGoroutines(workers)
	for i, raw := range payloads {
		index := offset + i
		decoders.Go(func() stream.Callback {
			doc, err := s.decoder.DecodeFixture(raw)
			return func() {
				out = append(out, decodedFixture{index: index, doc: doc, err: err})
			}
		})
	}
	decoders.Wait()
	return out
}

func (s *BatchIngestor) applyOne(ctx context.Context, summary *BatchSummary, item decodedFixture) error {
	err := item.err
	if err == nil {
		var outcome FixtureOutcome
		outcome, err = s.fixtures.Apply(ctx, item.doc)
		if err == nil {
			summary.Succeeded++
			summary.Skipped = append(summary.Skipped, outcome.Skipped...)
			return nil
		}
	}

	summary.Failed++
	summary.Failures = append(summary.Failures, BatchFailure{
		Index:     item.index,
		FixtureID: item.doc.Fixture.ID,
		Kind:      entity.KindOf(err),
		Message:   err.Error(),
	})

	if entity.IsFatal(err) {
		s.logger.ErrorContext(ctx, "fixture batch aborted",
			"index", item.index,
			"fixture_id", item.doc.Fixture.ID,
			"error", err,
		)
		return crerr.Wrapf(err, "batch aborted at payload %d", item.index)
	}
	s.logger.WarnContext(ctx, "fixture failed",
		"index", item.index,
		"fixture_id", item.doc.Fixture.ID,
		"kind", string(entity.KindOf(err)),
		"error", err,
	)
	return nil
}
