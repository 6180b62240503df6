package usecase

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/football-etl/external/sportmonks"
	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/platform/resilience"
)

const defaultFetchWorkers = 4

type SyncConfig struct {
	FetchWorkers int
	Batch        BatchOptions
}

// SyncService pulls data from the provider and hands it to the ingestors.
type SyncService struct {
	provider   SportDataProvider
	decoder    Decoder
	batch      *BatchIngestor
	reference  *ReferenceIngestor
	derived    *DerivedIngestor
	watermarks *WatermarkService
	cfg        SyncConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewSyncService(
	provider SportDataProvider,
	decoder Decoder,
	batch *BatchIngestor,
	reference *ReferenceIngestor,
	derived *DerivedIngestor,
	watermarks *WatermarkService,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FetchWorkers <= 0 {
		cfg.FetchWorkers = defaultFetchWorkers
	}
	return &SyncService{
		provider:   provider,
		decoder:    decoder,
		batch:      batch,
		reference:  reference,
		derived:    derived,
		watermarks: watermarks,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// SyncFixturesInput selects fixtures either by id or by start date. Without
// ids or From, the range starts at the "fixtures" watermark.
type SyncFixturesInput struct {
	FixtureIDs []int64
	From       *time.Time
	To         *time.Time
}

type SyncFixturesResult struct {
	From             *time.Time   `json:"from,omitempty"`
	To               *time.Time   `json:"to,omitempty"`
	Fetched          int          `json:"fetched"`
	Summary          BatchSummary `json:"summary"`
	WatermarkUpdated bool         `json:"watermark_updated"`
}

// SyncFixtures fetches fixtures and ingests them as one batch. A date range
// run moves the "fixtures" watermark to the end of the fetched range, capped
// at the time the run started, unless the batch aborted.
func (s *SyncService) SyncFixtures(ctx context.Context, input SyncFixturesInput) (_ SyncFixturesResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncFixtures")
	defer func() { endSpan(span, err) }()

	runStart := s.now().UTC()
	var result SyncFixturesResult

	var payloads []json.RawMessage
	if len(input.FixtureIDs) > 0 {
		for _, id := range input.FixtureIDs {
			if id <= 0 {
				return result, crerr.Wrapf(ErrInvalidInput, "invalid fixture id %d", id)
			}
		}
		payloads, err = s.provider.FetchFixturesByIDs(ctx, input.FixtureIDs)
	} else {
		from, to, rangeErr := s.fixtureRange(ctx, input, runStart)
		if rangeErr != nil {
			return result, rangeErr
		}
		result.From, result.To = &from, &to
		payloads, err = s.provider.FetchFixturesBetween(ctx, from, to)
	}
	if err != nil {
		return result, providerError(err, "fetch fixtures")
	}
	result.Fetched = len(payloads)

	summary, err := s.batch.Ingest(ctx, payloads, s.cfg.Batch)
	result.Summary = summary
	if err != nil {
		return result, err
	}

	if result.To != nil {
		mark := runStart
		if result.To.Before(mark) {
			mark = *result.To
		}
		if err := s.watermarks.Set(ctx, WatermarkFixtures, mark); err != nil {
			return result, err
		}
		result.WatermarkUpdated = true
	}

	s.logger.InfoContext(ctx, "fixtures synced",
		"fetched", result.Fetched,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"watermark_updated", result.WatermarkUpdated,
	)
	return result, nil
}

func (s *SyncService) fixtureRange(ctx context.Context, input SyncFixturesInput, runStart time.Time) (time.Time, time.Time, error) {
	to := runStart
	if input.To != nil {
		to = input.To.UTC()
	}

	var from time.Time
	if input.From != nil {
		from = input.From.UTC()
	} else {
		at, ok, err := s.watermarks.Get(ctx, WatermarkFixtures)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		if !ok {
			return time.Time{}, time.Time{}, crerr.Wrap(ErrInvalidInput, "from is required until a fixtures watermark exists")
		}
		from = at.UTC()
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, crerr.Wrapf(ErrInvalidInput, "range end %s is before start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	return from, to, nil
}

// ReferenceKindResult reports one reference feed. Error is set when the
// feed could not be fetched or decoded.
type ReferenceKindResult struct {
	ApplyResult
	Fetched int    `json:"fetched"`
	Error   string `json:"error,omitempty"`
}

type SyncReferenceResult struct {
	Kinds            []ReferenceKindResult `json:"kinds"`
	Failed           int                   `json:"failed"`
	WatermarkUpdated bool                  `json:"watermark_updated"`
}

type referenceFetch struct {
	items []json.RawMessage
	err   error
}

// SyncReference fetches the requested reference feeds concurrently and
// applies them one at a time in dependency order. No kinds means all of
// them. The "reference" watermark moves only when every feed succeeded.
func (s *SyncService) SyncReference(ctx context.Context, kinds []string) (_ SyncReferenceResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncReference")
	defer func() { endSpan(span, err) }()

	runStart := s.now().UTC()
	ordered, err := orderReferenceKinds(kinds)
	if err != nil {
		return SyncReferenceResult{}, err
	}

	fetched, err := s.fetchReference(ctx, ordered)
	if err != nil {
		return SyncReferenceResult{}, err
	}

	result := SyncReferenceResult{Kinds: make([]ReferenceKindResult, 0, len(ordered))}
	for _, kind := range ordered {
		f := fetched[kind]
		row := ReferenceKindResult{ApplyResult: ApplyResult{Entity: kind}, Fetched: len(f.items)}
		if f.err != nil {
			row.Error = providerError(f.err, "fetch "+kind).Error()
			result.Failed++
			result.Kinds = append(result.Kinds, row)
			s.logger.WarnContext(ctx, "reference fetch failed", "kind", kind, "error", f.err)
			continue
		}

		applied, err := s.reference.Ingest(ctx, kind, f.items)
		if err != nil {
			if entity.IsFatal(err) {
				return result, err
			}
			row.Error = err.Error()
			result.Failed++
			result.Kinds = append(result.Kinds, row)
			s.logger.WarnContext(ctx, "reference apply failed", "kind", kind, "error", err)
			continue
		}
		row.ApplyResult = applied
		result.Kinds = append(result.Kinds, row)
	}

	if result.Failed == 0 {
		if err := s.watermarks.Set(ctx, WatermarkReference, runStart); err != nil {
			return result, err
		}
		result.WatermarkUpdated = true
	}
	return result, nil
}

func (s *SyncService) fetchReference(ctx context.Context, kinds []string) (map[string]referenceFetch, error) {
	pool, err := ants.NewPool(min(s.cfg.FetchWorkers, len(kinds)))
	if err != nil {
		return nil, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
		out     = make(map[string]referenceFetch, len(kinds))
	)
	for _, kind := range kinds {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			items, err := s.provider.FetchReference(ctx, kind)
			mu.Lock()
			out[kind] = referenceFetch{items: items, err: err}
			mu.Unlock()
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, crerr.Wrap(err, "submit reference fetch")
		}
	}
	workers.Wait()
	return out, nil
}

// orderReferenceKinds validates kinds and sorts them into dependency order.
func orderReferenceKinds(kinds []string) ([]string, error) {
	all := sportmonks.ReferenceKinds()
	if len(kinds) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(kinds))
	for _, kind := range kinds {
		kind = strings.ToLower(strings.TrimSpace(kind))
		if !slices.Contains(all, kind) {
			return nil, crerr.Wrapf(ErrInvalidInput, "unknown reference kind %q", kind)
		}
		wanted[kind] = true
	}

	out := make([]string, 0, len(wanted))
	for _, kind := range all {
		if wanted[kind] {
			out = append(out, kind)
		}
	}
	return out, nil
}

// SyncStandings replaces a season's standings.
func (s *SyncService) SyncStandings(ctx context.Context, seasonID int64) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncStandings")
	defer func() { endSpan(span, err) }()

	if seasonID <= 0 {
		return ApplyResult{}, crerr.Wrap(ErrInvalidInput, "season_id is required")
	}
	items, err := s.provider.FetchStandings(ctx, seasonID)
	if err != nil {
		return ApplyResult{}, providerError(err, "fetch standings")
	}
	doc, err := s.decoder.DecodeStandings(seasonID, items)
	if err != nil {
		return ApplyResult{}, crerr.Wrapf(err, "decode standings season_id=%d", seasonID)
	}
	return s.derived.ReplaceStandings(ctx, doc)
}

// SyncTopScorers writes a season's top performer lists. category names the
// list when the feed does not carry one.
func (s *SyncService) SyncTopScorers(ctx context.Context, seasonID int64, category string) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTopScorers")
	defer func() { endSpan(span, err) }()

	if seasonID <= 0 {
		return ApplyResult{}, crerr.Wrap(ErrInvalidInput, "season_id is required")
	}
	items, err := s.provider.FetchTopScorers(ctx, seasonID)
	if err != nil {
		return ApplyResult{}, providerError(err, "fetch top scorers")
	}
	docs, err := s.decoder.DecodeTopPerformers(seasonID, category, items)
	if err != nil {
		return ApplyResult{}, crerr.Wrapf(err, "decode top scorers season_id=%d", seasonID)
	}
	return s.derived.ApplyTopPerformers(ctx, docs)
}

func (s *SyncService) SyncSquad(ctx context.Context, seasonID, teamID int64) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncSquad")
	defer func() { endSpan(span, err) }()

	if seasonID <= 0 || teamID <= 0 {
		return ApplyResult{}, crerr.Wrap(ErrInvalidInput, "season_id and team_id are required")
	}
	items, err := s.provider.FetchSquad(ctx, seasonID, teamID)
	if err != nil {
		return ApplyResult{}, providerError(err, "fetch squad")
	}
	doc, err := s.decoder.DecodeSquad(teamID, seasonID, items)
	if err != nil {
		return ApplyResult{}, crerr.Wrapf(err, "decode squad team_id=%d", teamID)
	}
	return s.derived.ApplySquad(ctx, doc)
}

func (s *SyncService) SyncOdds(ctx context.Context, fixtureID int64) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncOdds")
	defer func() { endSpan(span, err) }()

	if fixtureID <= 0 {
		return ApplyResult{}, crerr.Wrap(ErrInvalidInput, "fixture_id is required")
	}
	items, err := s.provider.FetchOdds(ctx, fixtureID)
	if err != nil {
		return ApplyResult{}, providerError(err, "fetch odds")
	}
	doc, err := s.decoder.DecodeOdds(fixtureID, items)
	if err != nil {
		return ApplyResult{}, crerr.Wrapf(err, "decode odds fixture_id=%d", fixtureID)
	}
	return s.derived.ReplaceOdds(ctx, doc)
}

// SyncPredictions stores the full-time result probabilities of a fixture.
// A fixture without a usable prediction writes nothing.
func (s *SyncService) SyncPredictions(ctx context.Context, fixtureID int64) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncPredictions")
	defer func() { endSpan(span, err) }()

	if fixtureID <= 0 {
		return ApplyResult{}, crerr.Wrap(ErrInvalidInput, "fixture_id is required")
	}
	items, err := s.provider.FetchPredictions(ctx, fixtureID)
	if err != nil {
		return ApplyResult{}, providerError(err, "fetch predictions")
	}
	p, ok, err := s.decoder.DecodePrediction(fixtureID, items)
	if err != nil {
		return ApplyResult{}, crerr.Wrapf(err, "decode predictions fixture_id=%d", fixtureID)
	}
	if !ok {
		s.logger.InfoContext(ctx, "no full-time prediction available", "fixture_id", fixtureID)
		return ApplyResult{Entity: entity.Predictions}, nil
	}
	return s.derived.ApplyPrediction(ctx, p)
}

// providerError marks exhausted retries and an open circuit as an
// unavailable dependency.
func providerError(err error, op string) error {
	if crerr.Is(err, sportmonks.ErrTransientFetch) || crerr.Is(err, resilience.ErrCircuitOpen) {
		return crerr.Mark(crerr.Wrap(err, op), ErrDependencyUnavailable)
	}
	return crerr.Wrap(err, op)
}
