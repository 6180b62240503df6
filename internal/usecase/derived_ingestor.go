package usecase

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/market"
	"github.com/riskibarqy/football-etl/internal/domain/squad"
	"github.com/riskibarqy/football-etl/internal/domain/standing"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// DerivedIngestor writes season and fixture level data computed by the
// provider: standings, odds, predictions, squads and top performers.
type DerivedIngestor struct {
	tx     entity.TxRunner
	logger *logging.Logger
}

func NewDerivedIngestor(tx entity.TxRunner, logger *logging.Logger) *DerivedIngestor {
	if logger == nil {
		logger = logging.Default()
	}
	return &DerivedIngestor{tx: tx, logger: logger}
}

// ReplaceStandings clears the season table and writes doc in its place.
func (s *DerivedIngestor) ReplaceStandings(ctx context.Context, doc standing.Document) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DerivedIngestor.ReplaceStandings")
	defer func() { endSpan(span, err) }()

	result := ApplyResult{Entity: entity.Standings}
	if doc.SeasonID <= 0 {
		return result, crerr.Wrap(ErrInvalidInput, "season_id is required")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		cleared, err := w.Clear(ctx, entity.Standings, "season_id", doc.SeasonID)
		if err != nil {
			return err
		}
		result.Cleared = cleared

		a := newRecordApplier(w, 0, s.logger)
		for _, e := range doc.Entries {
			teamOK, err := putOptional(ctx, a, e.Team)
			if err != nil {
				return err
			}
			if _, err := a.putIf(ctx, teamOK, e.Standing); err != nil {
				return err
			}
		}
		result.Written, result.Skipped = a.written, a.skipped
		return nil
	})
	if err != nil {
		return ApplyResult{Entity: entity.Standings}, crerr.Wrapf(err, "replace standings season_id=%d", doc.SeasonID)
	}

	s.logger.InfoContext(ctx, "standings replaced",
		"season_id", doc.SeasonID,
		"cleared", result.Cleared,
		"written", result.Written,
	)
	return result, nil
}

// ReplaceOdds clears the fixture's odds and writes doc in their place.
func (s *DerivedIngestor) ReplaceOdds(ctx context.Context, doc market.OddsDocument) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DerivedIngestor.ReplaceOdds")
	defer func() { endSpan(span, err) }()

	result := ApplyResult{Entity: entity.Odds}
	if doc.FixtureID <= 0 {
		return result, crerr.Wrap(ErrInvalidInput, "fixture_id is required")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		cleared, err := w.Clear(ctx, entity.Odds, "fixture_id", doc.FixtureID)
		if err != nil {
			return err
		}
		result.Cleared = cleared

		a := newRecordApplier(w, doc.FixtureID, s.logger)
		for _, e := range doc.Entries {
			bookmakerOK, err := putOptional(ctx, a, e.Bookmaker)
			if err != nil {
				return err
			}
			marketOK, err := putOptional(ctx, a, e.Market)
			if err != nil {
				return err
			}
			for _, odd := range e.Odds {
				if _, err := a.putIf(ctx, bookmakerOK && marketOK, odd); err != nil {
					return err
				}
			}
		}
		result.Written, result.Skipped = a.written, a.skipped
		return nil
	})
	if err != nil {
		return ApplyResult{Entity: entity.Odds}, crerr.Wrapf(err, "replace odds fixture_id=%d", doc.FixtureID)
	}
	return result, nil
}

func (s *DerivedIngestor) ApplyPrediction(ctx context.Context, p market.Prediction) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DerivedIngestor.ApplyPrediction")
	defer func() { endSpan(span, err) }()

	result := ApplyResult{Entity: entity.Predictions}
	if p.FixtureID <= 0 {
		return result, crerr.Wrap(ErrInvalidInput, "fixture_id is required")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		a := newRecordApplier(w, p.FixtureID, s.logger)
		if _, err := a.put(ctx, p); err != nil {
			return err
		}
		result.Written = a.written
		return nil
	})
	if err != nil {
		return ApplyResult{Entity: entity.Predictions}, crerr.Wrapf(err, "apply prediction fixture_id=%d", p.FixtureID)
	}
	return result, nil
}

// ApplySquad writes each member with its player stub and season totals.
// Existing squad rows are overwritten, not cleared.
func (s *DerivedIngestor) ApplySquad(ctx context.Context, doc squad.Document) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DerivedIngestor.ApplySquad")
	defer func() { endSpan(span, err) }()

	result := ApplyResult{Entity: entity.TeamSquads}
	if doc.TeamID <= 0 || doc.SeasonID <= 0 {
		return result, crerr.Wrap(ErrInvalidInput, "team_id and season_id are required")
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		a := newRecordApplier(w, 0, s.logger)
		for _, m := range doc.Members {
			playerOK, err := putOptional(ctx, a, m.Player)
			if err != nil {
				return err
			}
			memberOK, err := a.putIf(ctx, playerOK, m.Member)
			if err != nil {
				return err
			}
			for _, st := range m.Stats {
				typeOK, err := putOptional(ctx, a, st.Type)
				if err != nil {
					return err
				}
				if _, err := a.putIf(ctx, memberOK && typeOK, st.Stat); err != nil {
					return err
				}
			}
		}
		result.Written, result.Skipped = a.written, a.skipped
		return nil
	})
	if err != nil {
		return ApplyResult{Entity: entity.TeamSquads}, crerr.Wrapf(err, "apply squad team_id=%d season_id=%d", doc.TeamID, doc.SeasonID)
	}
	return result, nil
}

// ApplyTopPerformers writes ranked lists, one transaction for all of them.
func (s *DerivedIngestor) ApplyTopPerformers(ctx context.Context, docs []squad.TopPerformersDocument) (_ ApplyResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DerivedIngestor.ApplyTopPerformers")
	defer func() { endSpan(span, err) }()

	result := ApplyResult{Entity: entity.TopPerformers}
	for _, doc := range docs {
		if doc.SeasonID <= 0 || strings.TrimSpace(doc.Category) == "" {
			return result, crerr.Wrap(ErrInvalidInput, "season_id and category are required")
		}
	}
	if len(docs) == 0 {
		return result, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		a := newRecordApplier(w, 0, s.logger)
		for _, doc := range docs {
			for _, e := range doc.Entries {
				playerOK, err := putOptional(ctx, a, e.Player)
				if err != nil {
					return err
				}
				if _, err := a.putIf(ctx, playerOK, e.Performer); err != nil {
					return err
				}
			}
		}
		result.Written, result.Skipped = a.written, a.skipped
		return nil
	})
	if err != nil {
		return ApplyResult{Entity: entity.TopPerformers}, crerr.Wrap(err, "apply top performers")
	}
	return result, nil
}
